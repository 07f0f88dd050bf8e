package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMissingArgument = errors.New("missing argument")
)

// Console command names.
const (
	CmdType      = "type"
	CmdTemp      = "temp"
	CmdDuration  = "duration"
	CmdEquipment = "equipment"
	CmdShow      = "show"
	CmdCatalog   = "catalog"
	CmdBrief     = "brief"
	CmdGenerate  = "generate"
	CmdRetry     = "retry"
	CmdConfirm   = "confirm"
	CmdClose     = "close"
	CmdOpen      = "open"
	CmdHistory   = "history"
	CmdHelp      = "help"
	CmdExit      = "exit"
)

var aliases = map[string]string{
	"mission":     CmdType,
	"temperature": CmdTemp,
	"hours":       CmdDuration,
	"loadout":     CmdEquipment,
	"gen":         CmdGenerate,
	"g":           CmdGenerate,
	"replan":      CmdRetry,
	"ok":          CmdConfirm,
	"quit":        CmdExit,
	"?":           CmdHelp,
}

var needsArg = map[string]bool{
	CmdType:      true,
	CmdTemp:      true,
	CmdDuration:  true,
	CmdEquipment: true,
}

var known = map[string]bool{
	CmdType: true, CmdTemp: true, CmdDuration: true, CmdEquipment: true,
	CmdShow: true, CmdCatalog: true, CmdBrief: true, CmdGenerate: true,
	CmdRetry: true, CmdConfirm: true, CmdClose: true, CmdOpen: true,
	CmdHistory: true, CmdHelp: true, CmdExit: true,
}

type Command struct {
	Name string
	// Arg is the rest of the line, untrimmed inside.
	Arg string
	// Int is set for temp and duration.
	Int int
}

func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, fmt.Errorf("%w: empty input", ErrUnknownCommand)
	}
	name, arg, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)
	if a, ok := aliases[name]; ok {
		name = a
	}
	if !known[name] {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	arg = strings.TrimSpace(arg)
	cmd := Command{Name: name, Arg: arg}
	if needsArg[name] && arg == "" {
		return Command{}, fmt.Errorf("%w: %s needs a value", ErrMissingArgument, name)
	}
	if name == CmdTemp || name == CmdDuration {
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSuffix(arg, "°C"), "h"))
		if err != nil {
			return Command{}, fmt.Errorf("%s expects an integer, got %q", name, arg)
		}
		cmd.Int = n
	}
	return cmd, nil
}

const helpText = `Commands:
  type <Recon|Defense|Arctic|Rescue>   set mission type
  temp <-50..50>                       set ambient temperature (°C)
  duration <1..72>                     set mission duration (hours)
  equipment <text>                     set the carried equipment loadout
  show                                 show the current state
  catalog                              list the product catalog
  brief                                preview the compiled brief
  generate                             request a tactical energy briefing
  retry                                back to editing, keep parameters
  confirm                              accept the briefing and close
  close / open                         close or reopen the planner
  history                              attempt metrics for this session
  exit                                 quit`
