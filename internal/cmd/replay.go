package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/offlinefirst/squirrel/pkg/inject"
	"github.com/offlinefirst/squirrel/pkg/scenario"
)

func newReplayCommand() command {
	return command{
		name:        "replay",
		description: "Replay a scenario script against a recording injector",
		configure: func(fs *flag.FlagSet) {
			fs.Bool("json", false, "Print the transcript as JSON")
			fs.Bool("settle", true, "Run until idle after the last step")
			fs.String("fail", "", "Comma-separated event kinds the injector rejects (mouse_down, mouse_up, mouse_dragged, mouse_moved)")
		},
		run: runReplay,
	}
}

func runReplay(fs *flag.FlagSet, args []string, ctx *AppContext, stdout io.Writer, stderr io.Writer) error {
	if ctx == nil {
		return fmt.Errorf("application context unavailable")
	}
	if len(args) != 1 {
		return errors.New("replay expects exactly one scenario file")
	}

	failKinds, err := parseKinds(stringFlag(fs, "fail"))
	if err != nil {
		return err
	}

	script, err := scenario.Load(args[0])
	if err != nil {
		return err
	}
	settle := boolFlag(fs, "settle")
	transcript, err := scenario.Run(script, scenario.Options{
		Logger:    ctx.Logger,
		Settle:    settle,
		FailKinds: failKinds,
	})
	if err != nil {
		return fmt.Errorf("replay %s: %w", args[0], err)
	}
	ctx.Logger.Info("scenario replayed",
		"script", args[0],
		"steps", len(script.Steps),
		"events", len(transcript.Entries),
		"balanced", transcript.Balanced,
	)

	if boolFlag(fs, "json") {
		err = transcript.WriteJSON(stdout)
	} else {
		err = transcript.WriteText(stdout)
	}
	if err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}

	if settle && !transcript.Balanced {
		return errors.New("scenario left the mouse button unbalanced")
	}
	return nil
}

func parseKinds(value string) ([]inject.Kind, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	known := map[string]inject.Kind{}
	for _, kind := range []inject.Kind{inject.KindMouseDown, inject.KindMouseUp, inject.KindMouseDragged, inject.KindMouseMoved} {
		known[kind.String()] = kind
	}
	var kinds []inject.Kind
	for _, part := range strings.Split(value, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		kind, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("unknown event kind %q", name)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}
