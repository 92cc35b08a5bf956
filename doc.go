// Package leadline is the state core of the Leadline agent wizard.
//
// The wizard walks a user through configuring an AI lead-management
// agent in three steps, simulates the agent's tools before anything is
// deployed, and ships the finished configuration to the Leadline
// agents API.
//
// # Quick Start
//
// Install the CLI:
//
//	go install github.com/leadline-ai/leadline/cmd/leadline@latest
//
// Start the wizard server against a local backend:
//
//	leadline serve
//
// Or with a config file:
//
//	yaml
//	backend:
//	  base_url: https://api.leadline.example
//	  token: ${LEADLINE_TOKEN}
//	storage:
//	  type: sqlite
//	  path: ./leadline.db
//
//	leadline serve --config leadline.yaml
//
// # Packages
//
//   - pkg/draft: the working agent configuration and its validation
//   - pkg/wizard: the session store with copy-on-write path updates
//   - pkg/transform: draft <-> server wire-format mapping
//   - pkg/deploy: the deploy/update/test pipeline
//   - pkg/sim: offline tool simulations for the wizard's test panel
//   - pkg/backend: the agents API client
//   - pkg/server: the HTTP surface consumed by the form shell
package leadline
