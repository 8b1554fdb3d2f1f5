package main

import (
	"context"
	"os"

	"github.com/swdunlop/zugzug-go"
	"github.com/swdunlop/zugzug-go/zug/parser"

	"github.com/swdunlop/spawn-go"
	"github.com/swdunlop/spawn-go/configuration"
	"github.com/swdunlop/spawn-go/demo"
	"github.com/swdunlop/spawn-go/internal/slog"

	_ "github.com/swdunlop/spawn-go/worker"
)

var tasks = zugzug.Tasks{
	{Name: "info", Use: "reports the execution units and memory the platform offers", Fn: runInfo},
	{Name: "run", Use: "spawns a worker when more than one core is available, then joins it", Fn: runJoin,
		Parse: parser.New(
			parser.String(&cfgTask, "task", "t", "worker task to spawn, \"count\" or \"spin\""),
			parser.String(&cfgIterations, "iterations", "n", "output operations the worker performs"),
			parser.String(&cfgFile, "config", "c", "optional YAML configuration file"),
		)},
	{Name: "detach", Use: "spawns a worker and detaches it instead of waiting", Fn: runDetach,
		Parse: parser.New(
			parser.String(&cfgTask, "task", "t", "worker task to spawn, \"count\" or \"spin\""),
			parser.String(&cfgIterations, "iterations", "n", "output operations the worker performs"),
			parser.String(&cfgFile, "config", "c", "optional YAML configuration file"),
		)},
	{Name: "shell", Use: "drives the spawn / join / detach lifecycle interactively", Fn: runShell},
}

var (
	cfgTask       = ``
	cfgIterations = ``
	cfgFile       = `spawn.yaml`
)

func init() {
	slog.Init(os.Stderr)
}

func main() {
	zugzug.Main(tasks)
}

func runInfo(ctx context.Context) error {
	spawn.Probe().Summary(stdout())
	return nil
}

func runJoin(ctx context.Context) error {
	return demo.Run(ctx, config(ctx), stdout())
}

func runDetach(ctx context.Context) error {
	return demo.Detach(ctx, config(ctx), stdout())
}

func stdout() spawn.Sink { return spawn.WriterSink(os.Stdout) }

// config overlays flags over SPAWN_* environment variables over the optional configuration file over
// the stock defaults.
func config(ctx context.Context) configuration.Interface {
	file, err := configuration.File(cfgFile)
	if err != nil {
		slog.From(ctx).Warn(`ignoring configuration file`, `path`, cfgFile, `err`, err.Error())
		file = configuration.Map{}
	}
	flags := configuration.Map{}
	if cfgTask != `` {
		flags[`task`] = []string{cfgTask}
	}
	if cfgIterations != `` {
		flags[`iterations`] = []string{cfgIterations}
	}
	return configuration.Overlay{
		flags,
		configuration.Environment(`SPAWN_`),
		file,
		configuration.Map{
			`task`: {defaultTask},
		},
	}
}

const defaultTask = `count`
