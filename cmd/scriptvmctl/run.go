package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coresampler/rtscript/pkg/enginechannel"
	"github.com/coresampler/rtscript/pkg/event"
	"github.com/coresampler/rtscript/pkg/logging"
	"github.com/coresampler/rtscript/pkg/scriptid"
	"github.com/coresampler/rtscript/pkg/tokenizer"
	"github.com/coresampler/rtscript/pkg/vm"
)

// demoHandler stands in for a compiled script's note event handler: it
// exercises the apply-now parameter-change path (change_vol/change_cutoff,
// legal only because this handler runs at the note's own trigger instant)
// and the scheduled path (fade_in, whose volume=1.0 write always lands
// one microsecond later regardless of when fade_in itself is called).
func demoHandler(volumeDeltaDB, cutoffHz float64, fadeInUs int64) enginechannel.Handler {
	return func(ctx *vm.Context, ev event.Event) {
		id := scriptid.FromNoteID(ev.Note.NoteID)

		// change_vol's unadorned argument is read in milli-decibels.
		if err := ctx.ChangeParam("change_vol", []scriptid.ID{id}, vm.Real64(volumeDeltaDB*1000), false); err != nil {
			ctx.Logger.Warningf("change_vol: %v", err)
		}
		// An explicit Hertz unit makes change_cutoff's argument a
		// native literal rather than a normalized 0..1 ratio.
		cutoffArg := vm.Value{Type: vm.TypeReal, Real: cutoffHz, Unit: vm.UnitHertz}
		if err := ctx.ChangeParam("change_cutoff", []scriptid.ID{id}, cutoffArg, false); err != nil {
			ctx.Logger.Warningf("change_cutoff: %v", err)
		}
		if err := ctx.FadeIn([]scriptid.ID{id}, fadeInUs); err != nil {
			ctx.Logger.Warningf("fade_in: %v", err)
		}
	}
}

func newRunCmd(box *cfgBox) *cobra.Command {
	var (
		key        int
		velocity   int
		volumeDB   float64
		cutoffHz   float64
		fadeInUs   int64
		fragments  int
		frameCount int
	)

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Lint a script file, then fire a synthetic note-on through a fixed demo note handler and print the resulting timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *box.cfg
			logger := logging.NewConsole("scriptvmctl")
			out := cmd.OutOrStdout()

			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("run: %w", err)
			}
			// This module has no NKSP interpreter (C10 only classifies
			// tokens; there is no bytecode/AST executor in scope), so a
			// script body cannot be compiled and run directly. Lint it
			// for diagnostics, then drive the same built-in call
			// sequence a compiled `on note` handler would make.
			tokens := tokenizer.MarkEventHandlerNames(tokenizer.New(src).Tokenize())
			for _, d := range tokenizer.LintCalls(tokens) {
				fmt.Fprintf(out, "%s:%d:%d: %s\n", args[0], d.Line, d.Column, d.Message)
			}

			ch := enginechannel.New(cfg, logger, nil, nil)
			ch.BindHandler(demoHandler(volumeDB, cutoffHz, fadeInUs))

			ev := event.New(0, event.TypeNoteOn)
			ev.Note.Key = uint8(key)
			ev.Note.Velocity = uint8(velocity)
			noteID := ch.ScheduleNoteMicroSec(ev, 0)
			if noteID == 0 {
				return fmt.Errorf("run: note pool exhausted")
			}

			for i := 0; i < fragments; i++ {
				ch.ProcessFragment(frameCount, cfg.SampleRate)
			}

			fmt.Fprintf(out, "fired note-on: key=%d velocity=%d -> note id %d\n", key, velocity, noteID)
			fmt.Fprintf(out, "processed %d fragment(s) of %d frames at %d Hz (%d us each)\n",
				fragments, frameCount, cfg.SampleRate, int64(frameCount)*1_000_000/int64(cfg.SampleRate))
			fmt.Fprintf(out, "engine uptime: %d us, queue depth: %d\n", ch.EngineUptimeMicros(), ch.QueueDepth())

			n, ok := ch.NoteByID(noteID)
			if !ok {
				fmt.Fprintln(out, "note already retired")
				return nil
			}
			fmt.Fprintf(out, "note %d: hostKey=%d triggerTime=%d us\n", n.ID(), n.HostKey(), n.TriggerScheduleTime())
			fmt.Fprintf(out, "  volume=%.4f (final=%v) volumeTime=%.3fs\n", n.Override.Volume.Value, n.Override.Volume.Final, n.Override.VolumeTime)
			fmt.Fprintf(out, "  cutoff=%.2f (scope=%v)\n", n.Override.Cutoff.Value, n.Override.Cutoff.Scope)
			return nil
		},
	}

	cmd.Flags().IntVar(&key, "note", 60, "MIDI key number (0..127)")
	cmd.Flags().IntVar(&velocity, "velocity", 100, "MIDI velocity (0..127)")
	cmd.Flags().Float64Var(&volumeDB, "volume-db", -6, "change_vol argument, in decibels, applied apply-now")
	cmd.Flags().Float64Var(&cutoffHz, "cutoff-hz", 2000, "change_cutoff argument, in Hertz, applied apply-now")
	cmd.Flags().Int64Var(&fadeInUs, "fade-in-us", 500000, "fade_in duration in microseconds, applied on a deferred schedule")
	cmd.Flags().IntVar(&fragments, "fragments", 4, "number of audio fragments to process after the note-on")
	cmd.Flags().IntVar(&frameCount, "frame-count", 512, "frames per processed fragment")
	return cmd
}
