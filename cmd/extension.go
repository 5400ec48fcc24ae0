package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Environment passed to extensions.
const (
	EnvConfigFile = "PAYOFF_CONFIG"
	EnvLogLevel   = LogLevelEnv
)

// ExtensionPrefix prefixes the executables found in PATH that extend pop.
const ExtensionPrefix = "pop-"

// RunExtension attempts to find and execute an external pop-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(ctx context.Context, subcommand string, args []string) (bool, int) {
	name := ExtensionPrefix + subcommand
	_, log, _ := loadApp()

	lp, err := exec.LookPath(name)
	if err != nil {
		log.Debug().Str("extension", name).Err(err).Msg("extension not found in PATH")
		return false, 0
	}

	cmd := exec.CommandContext(ctx, lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), extensionEnv()...)

	log.Debug().Str("extension", lp).Strs("args", args).Msg("running extension")
	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}

// extensionEnv passes the global flags as environment variables.
func extensionEnv() []string {
	env := []string{EnvConfigFile + "=" + *configFile}
	if *logLevel != "" {
		env = append(env, EnvLogLevel+"="+*logLevel)
	}
	return env
}
