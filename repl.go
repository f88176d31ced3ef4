package main

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/mrdg/ducker/audio"
	"github.com/mrdg/ducker/dub"
)

type env struct {
	ducker *audio.Ducker
	player *player
}

func (e *env) eval(input string) error {
	command, err := dub.Parse(input)
	if err != nil {
		return err
	}
	name := string(command.Name)
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if len(command.Args) < cmd.minArgs {
			return fmt.Errorf("%s: not enough arguments: need at least %v, got %v",
				cmd.name, cmd.minArgs, len(command.Args))
		}
		if err := cmd.run(e, command.Args); err != nil {
			return fmt.Errorf("%s: %w", cmd.name, err)
		}
		return nil
	}
	return fmt.Errorf("unknown command: %s", name)
}

func repl(env *env) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		if err := env.eval(line); err != nil {
			fmt.Println(err)
		}
	}
}

type command struct {
	name    string
	help    string
	run     func(*env, []dub.Node) error
	minArgs int
}

var commands = []command{
	{"set", `set <param> <value>`, setCommand, 2},
	{"get", `get <param>`, getCommand, 1},
	{"state", `state - print the serialized configuration`, stateCommand, 0},
	{"save", `save "file" - write the configuration to a file`, saveCommand, 1},
	{"preset", `preset <name> - apply a factory preset`, presetCommand, 1},
	{"on", `on [velocity] - send the trigger note`, onCommand, 0},
	{"off", `off - release the trigger note`, offCommand, 0},
	{"load", `load "file.wav" - loop a sample through the effect`, loadCommand, 1},
	{"play", `play - resume the loop player`, playCommand, 0},
	{"stop", `stop - pause the loop player`, stopCommand, 0},
	{"render", `render "in.wav" "out.wav" <bpm> - bounce with one trigger per beat`, renderCommand, 3},
	{"help", `help - list commands`, helpCommand, 0},
}

func setCommand(e *env, args []dub.Node) error {
	key, err := argString(args[0])
	if err != nil {
		return err
	}
	return e.ducker.Set(key, nodeString(args[1]))
}

func getCommand(e *env, args []dub.Node) error {
	key, err := argString(args[0])
	if err != nil {
		return err
	}
	val, err := e.ducker.Param(key)
	if err != nil {
		return err
	}
	fmt.Println(val)
	return nil
}

func stateCommand(e *env, args []dub.Node) error {
	state, err := e.ducker.Param("state")
	if err != nil {
		return err
	}
	fmt.Println(state)
	return nil
}

func saveCommand(e *env, args []dub.Node) error {
	file, err := argString(args[0])
	if err != nil {
		return err
	}
	state, err := e.ducker.Param("state")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(file, []byte(state+"\n"), 0644)
}

func presetCommand(e *env, args []dub.Node) error {
	name, err := argString(args[0])
	if err != nil {
		return err
	}
	if err := audio.LoadPreset(name, e.ducker); err != nil {
		return fmt.Errorf("%v (have: %s)", err, strings.Join(audio.PresetNames(), ", "))
	}
	return nil
}

func onCommand(e *env, args []dub.Node) error {
	vel := 100
	if len(args) > 0 {
		n, ok := args[0].(dub.Int)
		if !ok {
			return errors.New("velocity must be an integer")
		}
		vel = int(n)
	}
	if vel < 1 {
		vel = 1
	}
	if vel > 127 {
		vel = 127
	}
	e.sendNote(true, vel)
	return nil
}

func offCommand(e *env, args []dub.Node) error {
	e.sendNote(false, 0)
	return nil
}

// sendNote constructs a raw note message for the configured trigger so the
// whole message path, nibbles and all, is exercised from the prompt.
func (e *env) sendNote(on bool, vel int) {
	ch, note := triggerAddress(e.ducker)
	status := byte(0x80)
	if on {
		status = 0x90
	}
	e.ducker.OnMidi([]byte{status | byte(ch-1), byte(note), byte(vel)}, 0)
}

func loadCommand(e *env, args []dub.Node) error {
	file, err := argString(args[0])
	if err != nil {
		return err
	}
	snd, err := loadSound(file)
	if err != nil {
		return err
	}
	e.player.load(snd)
	return nil
}

func playCommand(e *env, args []dub.Node) error {
	e.player.setPlaying(true)
	return nil
}

func stopCommand(e *env, args []dub.Node) error {
	e.player.setPlaying(false)
	return nil
}

func renderCommand(e *env, args []dub.Node) error {
	in, err := argString(args[0])
	if err != nil {
		return err
	}
	out, err := argString(args[1])
	if err != nil {
		return err
	}
	bpm, err := argFloat(args[2])
	if err != nil {
		return err
	}
	return render(e.ducker, in, out, bpm)
}

func helpCommand(e *env, args []dub.Node) error {
	for _, cmd := range commands {
		fmt.Println(cmd.help)
	}
	return nil
}

func argString(n dub.Node) (string, error) {
	switch v := n.(type) {
	case dub.Identifier:
		return string(v), nil
	case dub.String:
		return string(v), nil
	}
	return "", errors.New("expected a string or identifier")
}

func argFloat(n dub.Node) (float64, error) {
	switch v := n.(type) {
	case dub.Int:
		return float64(v), nil
	case dub.Float:
		return float64(v), nil
	}
	return 0, errors.New("expected a number")
}

// nodeString renders an argument the way the string-keyed parameter
// setters expect it.
func nodeString(n dub.Node) string {
	switch v := n.(type) {
	case dub.Identifier:
		return string(v)
	case dub.String:
		return string(v)
	case dub.Int:
		return strconv.Itoa(int(v))
	case dub.Float:
		return strconv.FormatFloat(float64(v), 'g', -1, 64)
	}
	return ""
}
