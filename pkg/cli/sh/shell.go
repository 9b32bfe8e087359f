// Package sh provides the interactive shell for inspecting the codec and
// the pulse protocol offline.
package sh

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/optolink/pkg/link"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell   *ishell.Shell
	Config  *link.Config
	Session *link.Session
}

const (
	shellKey    = "$shell"
	emptyPrompt = "[no message] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	commands []*ishell.Cmd
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *link.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(emptyPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustHaveSession wraps command func requiring a loaded message.
func MustHaveSession(fn func(c *ishell.Context, s *link.Session)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		sess := ShellFrom(c).Session
		if sess == nil {
			c.Err(fmt.Errorf("no message loaded"))
			return
		}
		fn(c, sess)
	}
}

// Print prints v as JSON in JSON mode, otherwise text.
func Print(c *ishell.Context, v interface{}, text string) {
	if ShellFrom(c).OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(text)
}

// Load builds the session of message.
func (s *Shell) Load(message string) error {
	protocol, err := s.Config.Pulse.Load()
	if err != nil {
		return err
	}
	sess, err := link.NewSession(message, protocol)
	if err != nil {
		return err
	}
	s.Session = sess
	s.Shell.SetPrompt(fmt.Sprintf("[%d symbols, %d bits] > ", len(sess.Codebook.Table), sess.Frame.Len()))
	return nil
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if msg, err := s.Config.LoadMessage(); err != nil {
		log.Fatalln(err)
	} else if err := s.Load(msg); err != nil {
		log.Fatalln(err)
	}
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(link.NewConfig()).Run(flag.Args()...)
}
