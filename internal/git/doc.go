// Package git fetches template repositories with the git command-line client.
//
// Key Components:
//
// CloneOptions: Configuration struct for a template clone. Contains the
// template URL, the destination directory, the access token, a progress
// tracker and a logger.
//
// CloneRepository: Runs one "git clone" of the template into the
// destination. The token is inserted into the clone URL
// (https://TOKEN@host/...) so no credential helper is needed.
//
// Example Usage:
//
//	opts := CloneOptions{
//	    SourceURL:  "https://github.com/acme/tmpl.git",
//	    WorkingDir: "temp_project_template",
//	    Token:      tok.Value,
//	    Progress:   progress.NewConsoleTracker(os.Stdout),
//	}
//
//	if err := CloneRepository(opts); err != nil {
//	    return err
//	}
//
// Error Handling:
//
// Every failure is returned as an OperationError of kind "fetch". There are
// no retries: a rejected token, a network failure or an existing
// destination all end the run.
//
// Security:
//
// The authenticated URL is passed to git as an argument and can be seen in
// process listings while the clone runs. Log output only ever carries the
// redacted form.
package git
