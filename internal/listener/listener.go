package listener

import (
	"fmt"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"everpeak/internal/mission"
)

const DefaultPrompt = "planner> "

var rl *readline.Instance
var mu sync.Mutex

// Completer offers the console commands and mission types.
func Completer() *readline.PrefixCompleter {
	types := make([]readline.PrefixCompleterInterface, 0, len(mission.Types))
	for _, t := range mission.Types {
		types = append(types, readline.PcItem(string(t)))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("type", types...),
		readline.PcItem("temp"),
		readline.PcItem("duration"),
		readline.PcItem("equipment"),
		readline.PcItem("show"),
		readline.PcItem("catalog"),
		readline.PcItem("brief"),
		readline.PcItem("generate"),
		readline.PcItem("retry"),
		readline.PcItem("confirm"),
		readline.PcItem("close"),
		readline.PcItem("open"),
		readline.PcItem("history"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

func Init() error {
	var err error
	rl, err = readline.NewEx(&readline.Config{
		Prompt:          DefaultPrompt,
		AutoComplete:    Completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	return err
}

func Close() {
	if rl != nil {
		_ = rl.Close()
	}
}

func SetPrompt(p string) {
	mu.Lock()
	defer mu.Unlock()
	if rl != nil {
		rl.SetPrompt(p)
	}
}

// GetInput returns the next trimmed line; ok is false on EOF or interrupt.
func GetInput() (string, bool) {
	line, err := rl.Readline()
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// AsyncPrintln prints above the prompt without breaking the line being typed.
func AsyncPrintln(s string) {
	mu.Lock()
	defer mu.Unlock()
	if rl == nil {
		fmt.Println(s)
		return
	}
	_, _ = rl.Write([]byte("\r\n" + s + "\r\n"))
	rl.Refresh()
}
