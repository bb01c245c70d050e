package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/osdp-go/osdp-go/pkg/device"
	"github.com/osdp-go/osdp-go/pkg/engine"
	"github.com/osdp-go/osdp-go/pkg/session"
)

const defaultWaitTimeout = 5 * time.Second

// shell is the interactive command loop over a running runtime.
type shell struct {
	rt          *runtime
	rl          *readline.Instance
	out         io.Writer
	waitTimeout time.Duration
}

func newShell(rt *runtime) (*shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "osdp> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &shell{rt: rt, rl: rl, out: rl.Stdout(), waitTimeout: defaultWaitTimeout}, nil
}

// Stdout returns a writer that coordinates with the readline prompt.
func (s *shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Run reads commands until EOF, quit or ctx ends.
func (s *shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}
		if s.exec(ctx, line) {
			cancel()
			return
		}
	}
}

// exec runs one command line and reports whether the shell should exit.
func (s *shell) exec(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch cmd {
	case "help", "?":
		s.printHelp()
	case "status", "s":
		s.cmdStatus()
	case "send":
		err = s.cmdSend(args)
	case "events", "e":
		err = s.cmdEvents(args)
	case "commands", "c":
		err = s.cmdCommands(args)
	case "card":
		err = s.cmdCard(args)
	case "keypad":
		err = s.cmdKeypad(args)
	case "enable":
		err = s.cmdEnable(args, true)
	case "disable":
		err = s.cmdEnable(args, false)
	case "wait":
		err = s.cmdWait(ctx, args)
	case "filetx":
		err = s.cmdFileTx(args)
	case "pdid":
		err = s.cmdPDID(args)
	case "quit", "exit", "q":
		return true
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	return false
}

func (s *shell) printHelp() {
	fmt.Fprint(s.out, `Commands:
  status                          Show every session and device
  send <addr> led [color]         Program the reader LED (red, green, amber, blue)
  send <addr> buzzer [count]      Sound the buzzer
  send <addr> text <message>      Write to the reader display
  send <addr> output <no> <code>  Drive an output
  send <addr> comset <addr> <baud>
  send <addr> mfg <vendor> <hex>  Send manufacturer data
  send <addr> keyset              Rotate the secure channel key
  send <addr> status              Request a local status report
  events <addr>                   Show events reported by a peripheral
  commands <addr>                 Show commands received by a local peripheral
  card <addr> <hex>               Present a card at a local peripheral
  keypad <addr> <digits>          Press keys at a local peripheral
  enable <addr> | disable <addr>  Hot-plug a device
  wait online|sc [addr]           Wait for devices to come online or secure
  filetx <addr> [<id>|cancel]     Start, cancel or show a file transfer
  pdid <addr>                     Show identity and capabilities
  quit                            Exit
`)
}

func (s *shell) cmdStatus() {
	for _, c := range s.rt.controllers {
		fmt.Fprintf(s.out, "CP %s [%s] %s\n", c.name, shortID(c.cp.ID()), c.cp.State())
		online, _ := c.cp.Status()
		secure, _ := c.cp.SCStatus()
		for i, desc := range c.cp.Descriptors() {
			enabled, _ := c.cp.IsPDEnabled(desc.Address)
			pending, _ := c.cp.PendingEvents(desc.Address)
			transfer, _ := c.cp.FileTransferState(desc.Address)
			fmt.Fprintf(s.out, "  %-16s enabled=%t online=%t sc=%t events=%d filetx=%s\n",
				desc, enabled, online.Has(i), secure.Has(i), pending, transfer)
		}
	}
	for _, p := range s.rt.peripherals {
		online, _ := p.pd.IsOnline()
		secure, _ := p.pd.IsSCActive()
		transfer, _ := p.pd.FileTransferState()
		st := p.State()
		fmt.Fprintf(s.out, "PD %s [%s] %s\n", p.name, shortID(p.pd.ID()), p.pd.State())
		fmt.Fprintf(s.out, "  pd-%-13d online=%t sc=%t commands=%d files=%d filetx=%s\n",
			p.pd.Address(), online, secure, st.Commands, len(st.Files), transfer)
	}
}

func (s *shell) cmdSend(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: send <addr> <command> [args]")
	}
	c, addr, err := s.controller(args[0])
	if err != nil {
		return err
	}

	kind := strings.ToLower(args[1])
	if kind == "keyset" {
		if err := c.RotateKey(addr); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "keyset sent to %d\n", addr)
		return nil
	}

	cmd, err := buildCommand(kind, args[2:])
	if err != nil {
		return err
	}
	ok, err := c.cp.SubmitCommand(addr, cmd)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s rejected by %d", cmd.CommandID(), addr)
	}
	fmt.Fprintf(s.out, "%s queued for %d\n", cmd.CommandID(), addr)
	return nil
}

// buildCommand parses the arguments of one send sub-command.
func buildCommand(kind string, args []string) (engine.Command, error) {
	switch kind {
	case "led":
		color := engine.LEDColorGreen
		if len(args) > 0 {
			c, err := parseColor(args[0])
			if err != nil {
				return nil, err
			}
			color = c
		}
		return &engine.LEDCommand{
			Temporary: &engine.LEDParams{ControlCode: 2, OnCount: 10, OffCount: 10, OnColor: color, TimerCount: 30},
			Permanent: &engine.LEDParams{ControlCode: 1, OnCount: 1, OnColor: color},
		}, nil
	case "buzzer":
		reps, err := intArg(args, 0, 1)
		if err != nil {
			return nil, err
		}
		return &engine.BuzzerCommand{ControlCode: 2, OnCount: 10, OffCount: 10, RepCount: reps}, nil
	case "text":
		if len(args) == 0 {
			return nil, errors.New("usage: send <addr> text <message>")
		}
		return &engine.TextCommand{ControlCode: 1, Data: strings.Join(args, " ")}, nil
	case "output":
		no, err := intArg(args, 0, 0)
		if err != nil {
			return nil, err
		}
		code, err := intArg(args, 1, 1)
		if err != nil {
			return nil, err
		}
		return &engine.OutputCommand{OutputNo: no, ControlCode: code}, nil
	case "comset":
		if len(args) < 2 {
			return nil, errors.New("usage: send <addr> comset <new-addr> <baud>")
		}
		addr, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid address: %s", args[0])
		}
		baud, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("invalid baud rate: %s", args[1])
		}
		return &engine.ComsetCommand{Address: addr, BaudRate: baud}, nil
	case "mfg":
		if len(args) < 2 {
			return nil, errors.New("usage: send <addr> mfg <vendor> <hex>")
		}
		vendor, err := strconv.ParseUint(args[0], 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vendor code: %s", args[0])
		}
		data, err := hex.DecodeString(args[1])
		if err != nil {
			return nil, fmt.Errorf("invalid data: %w", err)
		}
		return &engine.ManufacturerCommand{VendorCode: uint32(vendor), Data: data}, nil
	case "status":
		return &engine.StatusCommand{Type: engine.StatusReportLocal}, nil
	default:
		return nil, fmt.Errorf("unknown command %q", kind)
	}
}

func parseColor(s string) (engine.LEDColor, error) {
	switch strings.ToLower(s) {
	case "none", "off":
		return engine.LEDColorNone, nil
	case "red":
		return engine.LEDColorRed, nil
	case "green":
		return engine.LEDColorGreen, nil
	case "amber":
		return engine.LEDColorAmber, nil
	case "blue":
		return engine.LEDColorBlue, nil
	default:
		return 0, fmt.Errorf("unknown color %q", s)
	}
}

func intArg(args []string, i, def int) (int, error) {
	if len(args) <= i {
		return def, nil
	}
	v, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", args[i])
	}
	return v, nil
}

func (s *shell) cmdEvents(args []string) error {
	c, addr, err := s.controller(argAt(args, 0))
	if err != nil {
		return err
	}
	n := 0
	for {
		ev, err := c.cp.GetEvent(addr, 0)
		if err != nil {
			return err
		}
		if ev == nil {
			break
		}
		fmt.Fprintf(s.out, "  %s\n", describeEvent(ev))
		n++
	}
	if n == 0 {
		fmt.Fprintf(s.out, "no events from %d\n", addr)
	}
	return nil
}

func (s *shell) cmdCommands(args []string) error {
	p, err := s.peripheral(argAt(args, 0))
	if err != nil {
		return err
	}
	n := 0
	for cmd := p.pd.GetCommand(0); cmd != nil; cmd = p.pd.GetCommand(0) {
		fmt.Fprintf(s.out, "  %s\n", describeCommand(cmd))
		n++
	}
	if n == 0 {
		fmt.Fprintf(s.out, "no commands at %d\n", p.pd.Address())
	}
	return nil
}

func (s *shell) cmdCard(args []string) error {
	p, err := s.peripheral(argAt(args, 0))
	if err != nil {
		return err
	}
	data, err := hex.DecodeString(argAt(args, 1))
	if err != nil || len(data) == 0 {
		return errors.New("usage: card <addr> <hex>")
	}
	return s.submit(p, &engine.CardReadEvent{
		Format: engine.CardFormatRawWiegand,
		Length: len(data) * 8,
		Data:   data,
	})
}

func (s *shell) cmdKeypad(args []string) error {
	p, err := s.peripheral(argAt(args, 0))
	if err != nil {
		return err
	}
	digits := argAt(args, 1)
	if digits == "" {
		return errors.New("usage: keypad <addr> <digits>")
	}
	return s.submit(p, &engine.KeyPressEvent{Data: []byte(digits)})
}

func (s *shell) submit(p *peripheral, ev engine.Event) error {
	ok, err := p.pd.SubmitEvent(ev)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s rejected", ev.EventType())
	}
	fmt.Fprintf(s.out, "%s queued at %d\n", ev.EventType(), p.pd.Address())
	return nil
}

func (s *shell) cmdEnable(args []string, enable bool) error {
	c, addr, err := s.controller(argAt(args, 0))
	if err != nil {
		return err
	}
	changed, err := c.SetEnabled(addr, enable)
	if err != nil {
		return err
	}
	state := "disabled"
	if enable {
		state = "enabled"
	}
	if !changed {
		fmt.Fprintf(s.out, "%d already %s\n", addr, state)
		return nil
	}
	fmt.Fprintf(s.out, "%d %s\n", addr, state)
	return nil
}

func (s *shell) cmdWait(ctx context.Context, args []string) error {
	what := strings.ToLower(argAt(args, 0))
	if what != "online" && what != "sc" {
		return errors.New("usage: wait online|sc [addr]")
	}
	secure := what == "sc"

	if len(args) < 2 {
		ok := true
		for _, c := range s.rt.controllers {
			if secure {
				ok = c.cp.SCWaitAll(ctx, s.waitTimeout) && ok
			} else {
				ok = c.cp.OnlineWaitAll(ctx, s.waitTimeout) && ok
			}
		}
		fmt.Fprintf(s.out, "all %s: %t\n", what, ok)
		return nil
	}

	addr, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid address: %s", args[1])
	}
	var ok bool
	if c, found := s.rt.Controller(addr); found {
		if secure {
			ok, err = c.cp.SCWait(ctx, addr, s.waitTimeout)
		} else {
			ok, err = c.cp.OnlineWait(ctx, addr, s.waitTimeout)
		}
		if err != nil {
			return err
		}
	} else if p, found := s.rt.Peripheral(addr); found {
		if secure {
			ok = p.pd.SCWait(ctx, s.waitTimeout)
		} else {
			ok = p.pd.OnlineWait(ctx, s.waitTimeout)
		}
	} else {
		return fmt.Errorf("%w: %d", device.ErrUnknownAddress, addr)
	}
	fmt.Fprintf(s.out, "%d %s: %t\n", addr, what, ok)
	return nil
}

func (s *shell) cmdFileTx(args []string) error {
	c, addr, err := s.controller(argAt(args, 0))
	if err != nil {
		return err
	}

	if len(args) < 2 {
		st, err := c.cp.FileTxStatus(addr)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%d filetx %s", addr, session.ClassifyTransfer(st))
		if st != nil {
			fmt.Fprintf(s.out, " %d/%d", st.Offset, st.Size)
		}
		fmt.Fprintln(s.out)
		return nil
	}

	cmd := &engine.FileTransferCommand{}
	if strings.EqualFold(args[1], "cancel") {
		cmd.Flags = engine.FileTxFlagCancel
	} else {
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid file id: %s", args[1])
		}
		cmd.ID = id
	}
	ok, err := c.cp.SubmitCommand(addr, cmd)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("file transfer rejected by %d", addr)
	}
	fmt.Fprintf(s.out, "file transfer queued for %d\n", addr)
	return nil
}

func (s *shell) cmdPDID(args []string) error {
	c, addr, err := s.controller(argAt(args, 0))
	if err != nil {
		return err
	}
	id, ok, err := c.cp.PDID(addr)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(s.out, "%d has not reported its identity\n", addr)
		return nil
	}
	fmt.Fprintf(s.out, "%d vendor=0x%08X model=%d version=%d serial=0x%08X firmware=0x%08X\n",
		addr, id.VendorCode, id.Model, id.Version, id.SerialNumber, id.FirmwareVersion)
	for code := device.CapContactStatusMonitoring; code.Valid(); code++ {
		capability, ok, err := c.cp.CheckCapability(addr, code)
		if err != nil {
			return err
		}
		if ok {
			fmt.Fprintf(s.out, "  %-28s compliance=%d items=%d\n", code, capability.ComplianceLevel, capability.NumItems)
		}
	}
	return nil
}

func (s *shell) controller(arg string) (*controller, int, error) {
	addr, err := strconv.Atoi(arg)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid address: %q", arg)
	}
	c, ok := s.rt.Controller(addr)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %d", device.ErrUnknownAddress, addr)
	}
	return c, addr, nil
}

func (s *shell) peripheral(arg string) (*peripheral, error) {
	addr, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %q", arg)
	}
	p, ok := s.rt.Peripheral(addr)
	if !ok {
		return nil, fmt.Errorf("%w: no local peripheral at %d", device.ErrUnknownAddress, addr)
	}
	return p, nil
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func describeEvent(ev engine.Event) string {
	switch e := ev.(type) {
	case *engine.CardReadEvent:
		return fmt.Sprintf("CARDREAD reader=%d format=%d bits=%d data=%s", e.Reader, e.Format, e.Length, hex.EncodeToString(e.Data))
	case *engine.KeyPressEvent:
		return fmt.Sprintf("KEYPRESS reader=%d keys=%q", e.Reader, e.Data)
	case *engine.ManufacturerReplyEvent:
		return fmt.Sprintf("MFGREP vendor=0x%06X data=%s", e.VendorCode, hex.EncodeToString(e.Data))
	case *engine.NotificationEvent:
		return fmt.Sprintf("NOTIFICATION %s arg0=%d arg1=%d", e.Type, e.Arg0, e.Arg1)
	case *engine.StatusEvent:
		return fmt.Sprintf("STATUS type=%d report=%s", e.Type, hex.EncodeToString(e.Report))
	case *engine.IOEvent:
		return fmt.Sprintf("IO type=%d status=0x%X", e.Type, e.Status)
	default:
		return ev.EventType().String()
	}
}

func describeCommand(cmd engine.Command) string {
	switch c := cmd.(type) {
	case *engine.TextCommand:
		return fmt.Sprintf("TEXT %q", c.Data)
	case *engine.ManufacturerCommand:
		return fmt.Sprintf("MFG vendor=0x%06X data=%s", c.VendorCode, hex.EncodeToString(c.Data))
	case *engine.OutputCommand:
		return fmt.Sprintf("OUTPUT no=%d code=%d", c.OutputNo, c.ControlCode)
	case *engine.ComsetCommand:
		return fmt.Sprintf("COMSET address=%d baud=%d", c.Address, c.BaudRate)
	case *engine.FileTransferCommand:
		return fmt.Sprintf("FILE_TX id=%d flags=0x%X", c.ID, c.Flags)
	default:
		return cmd.CommandID().String()
	}
}
