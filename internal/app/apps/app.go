package apps

import "context"

// App is a runnable sub-application selected by the CLI.
type App interface {
	Run(ctx context.Context, args []string) error
}
