package main

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"
)

// workload is one benchmarked iteration.
type workload struct {
	name string
	run  func(ctx context.Context) error
}

// commandOptions controls how a command line is executed.
type commandOptions struct {
	Shell   string
	NoShell bool
}

func defaultShell() string {
	switch runtime.GOOS {
	case "windows":
		return "cmd.exe"
	default:
		return "/bin/sh"
	}
}

// argv returns the program and arguments that execute a command line.
func (opts commandOptions) argv(cmdline string) ([]string, error) {
	if opts.NoShell || opts.Shell == "" {
		args, err := shellquote.Split(cmdline)
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q: %w", cmdline, err)
		}
		if len(args) == 0 {
			return nil, errors.New("empty command string")
		}
		return args, nil
	}

	shellFlag := "-c"
	if base := opts.Shell[strings.LastIndexAny(opts.Shell, `/\`)+1:]; strings.EqualFold(base, "cmd.exe") {
		shellFlag = "/C"
	}
	return []string{opts.Shell, shellFlag, cmdline}, nil
}

// commandWorkload runs a command line to completion in each iteration.
func (opts commandOptions) commandWorkload(cmdline string) (w workload, err error) {
	args, err := opts.argv(cmdline)
	if err != nil {
		return w, err
	}
	logger.Debug("command", zap.String("cmdline", cmdline), zap.String("argv", shellquote.Join(args...)))
	return workload{
		name: cmdline,
		run: func(ctx context.Context) error {
			return exec.CommandContext(ctx, args[0], args[1:]...).Run()
		},
	}, nil
}

// runSetup executes a command line once.
func (opts commandOptions) runSetup(ctx context.Context, cmdline string) error {
	w, err := opts.commandWorkload(cmdline)
	if err != nil {
		return err
	}
	return w.run(ctx)
}

func fib(x int) int {
	if x < 2 {
		return x
	}
	return fib(x-1) + fib(x-2)
}

var fibSink int

// fibWorkload computes a Fibonacci number recursively in each iteration.
func fibWorkload(n int) workload {
	return workload{
		name: fmt.Sprintf("fib(%d)", n),
		run: func(ctx context.Context) error {
			fibSink = fib(n)
			return ctx.Err()
		},
	}
}
