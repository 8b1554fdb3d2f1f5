package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/chzyer/readline"

	"github.com/swdunlop/spawn-go"
)

// runShell drives the handle lifecycle by hand: spawn workers, then join or detach each one before
// quitting.  Workers share the shell's output stream, so their lines land wherever the scheduler
// puts them.
func runShell(ctx context.Context) error {
	rl, err := readline.New(`spawn> `)
	if err != nil {
		return err
	}
	defer rl.Close()

	sh := shell{
		ctx:     ctx,
		sink:    spawn.Synchronized(spawn.WriterSink(rl.Stdout())),
		handles: map[string]*spawn.Handle{},
	}
	for {
		line, err := rl.Readline()
		if err != nil {
			sh.warnUnresolved()
			return nil // ^C and ^D just leave the shell.
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch cmd, args := fields[0], fields[1:]; cmd {
		case `spawn`:
			sh.spawn(args)
		case `join`:
			sh.resolve(args, `join`, func(ctx context.Context, h *spawn.Handle) error {
				return h.Join(ctx)
			})
		case `detach`:
			sh.resolve(args, `detach`, func(_ context.Context, h *spawn.Handle) error {
				return h.Detach()
			})
		case `list`:
			sh.list()
		case `info`:
			spawn.Probe().Summary(sh.sink)
		case `help`:
			sh.help()
		case `quit`, `exit`:
			sh.warnUnresolved()
			return nil
		default:
			sh.sink.Say(fmt.Sprintf(`unknown command %q, try "help"`, cmd))
		}
	}
}

type shell struct {
	ctx     context.Context
	sink    spawn.Sink
	handles map[string]*spawn.Handle
	names   []string // insertion order of handles
	serial  int
}

func (sh *shell) spawn(args []string) {
	name := defaultTask
	if len(args) > 0 {
		name = args[0]
	}
	task, err := spawn.New(name, config(sh.ctx))
	if err != nil {
		sh.sink.Say(err.Error())
		return
	}
	sh.serial++
	id := fmt.Sprintf(`w%d`, sh.serial)
	sh.handles[id] = spawn.Go(task, sh.sink)
	sh.names = append(sh.names, id)
	sh.sink.Say(fmt.Sprintf(`spawned %s running %q`, id, name))
}

// resolve joins or detaches the named worker, or every unresolved worker when asked for "all".
func (sh *shell) resolve(args []string, verb string, op func(context.Context, *spawn.Handle) error) {
	did := verb + `ed`
	if len(args) == 0 {
		sh.sink.Say(fmt.Sprintf(`which worker? try "list", or "%s all"`, verb))
		return
	}
	names := args
	if args[0] == `all` {
		names = nil
		for _, id := range sh.names {
			if sh.handles[id].State() == spawn.StateCreated {
				names = append(names, id)
			}
		}
	}
	for _, id := range names {
		h, ok := sh.handles[id]
		if !ok {
			sh.sink.Say(fmt.Sprintf(`no worker named %q`, id))
			continue
		}
		if err := op(sh.ctx, h); err != nil {
			sh.sink.Say(fmt.Sprintf(`%s: %v`, id, err))
			continue
		}
		sh.sink.Say(fmt.Sprintf(`%s %s`, id, did))
	}
}

func (sh *shell) list() {
	if len(sh.names) == 0 {
		sh.sink.Say(`no workers spawned yet`)
		return
	}
	for _, id := range sh.names {
		sh.sink.Say(fmt.Sprintf(`%s  %v`, id, sh.handles[id].State()))
	}
}

// warnUnresolved names the workers that were never joined or detached; leaving them behind is
// exactly the leak this tool demonstrates.
func (sh *shell) warnUnresolved() {
	var leaked []string
	for _, id := range sh.names {
		if sh.handles[id].State() == spawn.StateCreated {
			leaked = append(leaked, id)
		}
	}
	if len(leaked) == 0 {
		return
	}
	sh.sink.Say(fmt.Sprintf(`warning: leaving without resolving %s`, strings.Join(leaked, `, `)))
}

func (sh *shell) help() {
	for _, line := range []string{
		`spawn [task]       start a worker ("count" or "spin")`,
		`join <name|all>    wait for a worker to finish`,
		`detach <name|all>  let a worker go its own way`,
		`list               show workers and their lifecycle state`,
		`info               show execution units and memory`,
		`quit               leave; unresolved workers are a leak`,
	} {
		sh.sink.Say(line)
	}
}
