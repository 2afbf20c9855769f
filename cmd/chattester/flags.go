package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"chat-tester/config"
	"chat-tester/internal/appdirs"
	"chat-tester/internal/deps"
	"chat-tester/log"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func handleInfoFlags(opts *options) {
	if opts.showVersion {
		printVersion()
	}

	if opts.showDiagnose {
		if opts.showVersion {
			fmt.Println()
		}
		printDiagnose()
	}
}

func printVersion() {
	fmt.Printf("version: %s\ncommit: %s\ndate: %s\n", version, commit, date)
}

func printDiagnose() {
	fmt.Printf("runtime: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("version: %s\n", version)
	fmt.Printf("commit: %s\n", commit)
	fmt.Printf("date: %s\n", date)

	if wd, err := os.Getwd(); err == nil {
		fmt.Printf("working_dir: %s\n", wd)
	} else {
		fmt.Printf("working_dir: <error: %v>\n", err)
	}

	if exePath, err := os.Executable(); err == nil {
		fmt.Printf("executable: %s\n", exePath)
	} else {
		fmt.Printf("executable: <error: %v>\n", err)
	}

	if dirs, err := appdirs.Resolve(); err == nil {
		fmt.Printf("portable: %t\n", dirs.Portable)
	} else {
		fmt.Printf("portable: <error: %v>\n", err)
	}

	if err := loadExistingConfig(); err != nil {
		fmt.Printf("config: <error: %v>\n", err)
	}

	if configPath, err := config.EffectivePath(); err == nil {
		printPath("config", configPath)
	} else {
		fmt.Printf("path.config: <error: %v>\n", err)
	}
	if logDir, err := log.ResolveLogDir(); err == nil {
		printPath("effective_log_dir", logDir)
	} else {
		fmt.Printf("path.effective_log_dir: <error: %v>\n", err)
	}
	if logFile, err := log.ResolveLogFilePath(); err == nil {
		printPath("log_file", logFile)
	} else {
		fmt.Printf("path.log_file: <error: %v>\n", err)
	}
	printPath("database", config.Conf.Database.Path)

	fmt.Printf("server.base_url: %s\n", config.Conf.Server.BaseURL())
	fmt.Printf("launcher.enabled: %t\n", config.Conf.Launcher.Enabled)

	states := deps.ResolveDependencyInventory(config.Conf.Launcher.Command, config.Conf.Launcher.Enabled)
	fmt.Println(deps.FormatDependencyReport(states))
}

func printPath(name, value string) {
	absPath, err := filepath.Abs(value)
	if err != nil {
		fmt.Printf("path.%s: %s (abs_error=%v)\n", name, value, err)
		return
	}

	if _, err = os.Stat(absPath); err == nil {
		fmt.Printf("path.%s: %s (exists)\n", name, absPath)
		return
	}
	if os.IsNotExist(err) {
		fmt.Printf("path.%s: %s (missing)\n", name, absPath)
		return
	}

	fmt.Printf("path.%s: %s (error=%v)\n", name, absPath, err)
}
