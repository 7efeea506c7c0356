// Package logger provides leveled logging for strongbox CLI commands.
//
// # Verbosity Levels
//
//   - --verbose: info and warning messages
//   - --debug: everything, including debug details and returned errors
//
// Without flags only WarnfAlways and Errorf print.
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Imported %d entries", n)
//
// Never pass passwords, notes or key bytes to any of these methods.
package logger
