// Package git reads tutorial repositories.
//
// A Repository wraps go-git and implements commits.HistoryReader: History
// walks a branch newest-first and returns each commit's hash and message.
// Local directories are opened in place; remote repositories are cloned into
// a Workspace, a scratch directory removed by Close unless it was created
// with keep set.
//
//	ws, err := git.NewWorkspace("", "coderoad-", false)
//	if err != nil {
//		return err
//	}
//	defer ws.Close()
//
//	repo, err := git.Clone(ctx, uri, ws.Dir, git.CloneOptions{Branch: "master"})
//
// # Authentication
//
// Remote clones authenticate through an AuthProvider built from
// config.GitAuthConfig:
//   - "token": HTTPS basic auth with a personal access token
//   - "ssh": public key from a private key file
//   - "none": public repositories
//
// # Cherry-picking
//
// go-git has no cherry-pick, so CherryPicker shells out to the git binary
// with "-X theirs", resolving conflicts in favor of the incoming commit.
package git
