// Copyright 2025 Leadline AI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command leadline runs the agent wizard service.
//
// Usage:
//
//	leadline serve --config leadline.yaml
//	leadline validate leadline.yaml
//	leadline simulate --tool knowledge --message "what are your hours?"
//	leadline schema
package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/alecthomas/kong"

	"github.com/leadline-ai/leadline/pkg/config"
	"github.com/leadline-ai/leadline/pkg/logger"
)

// CLI defines the command-line interface.
type CLI struct {
	Version  VersionCmd  `cmd:"" help:"Show version information."`
	Serve    ServeCmd    `cmd:"" help:"Start the wizard server."`
	Validate ValidateCmd `cmd:"" help:"Validate a configuration file."`
	Simulate SimulateCmd `cmd:"" help:"Run a tool simulation against the stored draft."`
	Deploy   DeployCmd   `cmd:"" help:"Deploy the stored draft to the backend."`
	Schema   SchemaCmd   `cmd:"" help:"Generate JSON Schema for the agent draft."`

	Config    string `short:"c" help:"Path to config file." type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error)." default:"info"`
	LogFormat string `help:"Log format (simple or verbose)." default:"simple"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("Leadline wizard version %s\n", version)
	return nil
}

// loadConfig loads the config file or falls back to defaults. A .env
// next to the config file (or the working directory) is loaded first so
// ${VAR} references in the config resolve.
func loadConfig(ctx context.Context, path string) (*config.Config, *config.Loader, error) {
	if path == "" {
		_ = config.LoadDotEnv()
		return config.Default(), nil, nil
	}
	_ = config.LoadDotEnvForConfig(path)
	cfg, loader, err := config.LoadFile(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, loader, nil
}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("leadline"),
		kong.Description("Leadline agent wizard - draft, simulate and deploy AI agents"),
		kong.UsageOnError(),
	)

	level, err := logger.ParseLevel(cli.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Init(level, os.Stderr, cli.LogFormat)

	err = ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
