/*
Package cli provides shared helpers for the aegis command: output
formatting, command error types, and shutdown signal handling.

Output Formatting:

Command results print as plain text or JSON:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
	// ctx is cancelled when a shutdown signal arrives
*/
package cli
