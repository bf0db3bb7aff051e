/*
Package cli provides the output and process helpers shared by the coderoad
commands.

Output Formatting:

Build diagnostics and validation reports are printed as text or JSON, and
validation reports additionally as JUnit XML for CI systems:

	formatter, err := cli.NewFormatter(cli.FormatJSON)
	if err != nil {
		return err
	}
	if err := formatter.FormatTo(os.Stdout, cli.ReportView{Report: report}); err != nil {
		return err
	}

Progress Reporting:

The validation runner reports step progress:

	progress := cli.NewProgressReporter(os.Stderr, "steps")
	runner.WithProgress(progress)

Signal Handling:

Commands run under a context cancelled on SIGINT or SIGTERM:

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
*/
package cli
