// Package build compiles a tutorial directory into the tutorial document.
//
// A build runs the stages in a fixed order:
//
//  1. read and lint the lesson text, then split and parse it
//  2. load the skeleton and check it against the skeleton schema
//  3. read the branch history and extract the commit map
//  4. merge skeleton, lesson and commits
//  5. validate the result against the tutorial schema
//
// Fatal diagnostics stop the pipeline; warnings are collected in the
// Result. The order report of stage 3 is advisory and never blocks a build.
//
// Basic usage:
//
//	builder, err := build.NewBuilder(build.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	result, err := builder.Run(ctx, build.Options{Dir: "."})
package build
