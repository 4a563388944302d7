package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zboralski/tarsier/internal/asm"
	"github.com/zboralski/tarsier/internal/config"
	"github.com/zboralski/tarsier/internal/devices/console"
	"github.com/zboralski/tarsier/internal/emu"
	glog "github.com/zboralski/tarsier/internal/log"
	"github.com/zboralski/tarsier/internal/rom"
	"github.com/zboralski/tarsier/internal/trace"
	"github.com/zboralski/tarsier/internal/ui"
	"github.com/zboralski/tarsier/internal/ui/colorize"
	"github.com/zboralski/tarsier/internal/ulz"
	"github.com/zboralski/tarsier/internal/uxn"
)

var (
	verbose bool
	quiet   bool
	maxInsn int
	steps   int
	cfgPath string
	fromB64 bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tarsier [program.rom]",
		Short: "Run Uxn ROMs on a console-only emulator",
		Long: `Tarsier emulates the Uxn stack machine with a console device.

A ROM is a raw byte sequence loaded at 0x0100; execution starts there
and runs until BRK or the step budget. Lines read from stdin are fed to
the ROM through the console input vector; bytes the ROM writes to the
console ports appear on stdout and stderr.

Examples:
  tarsier hello.rom                # run a ROM
  tarsier hello.rom.ulz            # ULZ-compressed ROMs load directly
  echo hi | tarsier echo.rom       # pipe input to the console vector
  tarsier hello.rom -v             # instruction trace
  tarsier asm hello.tal -o out.rom # assemble Uxntal
  tarsier info hello.rom           # ROM metadata and disassembly
  tarsier tui [hello.rom]          # interactive terminal UI`,
		Args:                  cobra.MaximumNArgs(1),
		DisableFlagsInUseLine: true,
		RunE:                  runROM,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose debug output and instruction trace")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default: user config dir)")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "quiet mode (ROM output only)")
	rootCmd.Flags().IntVarP(&maxInsn, "num", "n", 0, "max trace lines to show")
	rootCmd.Flags().IntVar(&steps, "steps", 0, "step budget per eval (0: built-in cap)")
	rootCmd.Flags().BoolVar(&fromB64, "b64", false, "argument is a base64 transport string, not a path")

	asmCmd := &cobra.Command{
		Use:   "asm <source.tal>",
		Short: "Assemble naive Uxntal to a ROM",
		Args:  cobra.ExactArgs(1),
		RunE:  runAsm,
	}
	asmCmd.Flags().StringP("output", "o", "", "output ROM path (default: stdout as base64)")
	asmCmd.Flags().Bool("ulz", false, "ULZ-compress the output")
	rootCmd.AddCommand(asmCmd)

	infoCmd := &cobra.Command{
		Use:   "info <program.rom>",
		Short: "Show ROM information",
		Args:  cobra.ExactArgs(1),
		RunE:  showInfo,
	}
	rootCmd.AddCommand(infoCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui [program.rom]",
		Short: "Interactive terminal UI",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTUI,
	}
	rootCmd.AddCommand(tuiCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig merges the config file with command-line flags; flags win.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return cfg, err
	}
	if verbose {
		cfg.Verbose = true
	}
	if quiet {
		cfg.Quiet = true
	}
	if steps > 0 {
		cfg.Steps = steps
	}
	if maxInsn > 0 {
		cfg.TraceLines = maxInsn
	}
	return cfg, nil
}

func loadArg(arg string) ([]byte, error) {
	if fromB64 {
		return rom.FromBase64(arg, false)
	}
	return rom.ReadFile(arg)
}

func runROM(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	glog.Init(cfg.Verbose)

	data, err := loadArg(args[0])
	if err != nil {
		return err
	}

	e := emu.New(
		emu.WithLogger(glog.L),
		emu.WithStepLimit(cfg.Steps),
		emu.WithConsole(console.WithWriters(os.Stdout, os.Stderr)),
	)

	session := trace.NewSession()
	count := 0
	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "%s session %s\n",
			colorize.Header("▶"), colorize.Detail(session.ID.String()))
		installTracer(e, session, cfg.TraceLines, &count)
	} else {
		e.Machine().SetOnStep(func(_ *uxn.Machine, _ byte) {
			count++
		})
	}

	if err := e.Load(data); err != nil {
		return err
	}

	// Feed stdin to the console vector when the ROM installed one.
	if e.Machine().DevPeek16(console.PortVector) != 0 {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			e.Console().InputLine(scanner.Text())
		}
		e.Console().InputEnd()
	}

	if !cfg.Quiet {
		printStats(count, len(data))
	}
	return nil
}

// installTracer prints one styled line per executed instruction, capped
// at limit lines.
func installTracer(e *emu.Emulator, session *trace.Session, limit int, count *int) {
	m := e.Machine()
	next := uint16(uxn.ResetVector)
	m.SetOnStep(func(m *uxn.Machine, ins byte) {
		pc := next
		next = m.PC()
		*count++

		ev := trace.NewEvent(pc, ins, uxn.OpName(ins), "")
		trace.DefaultEnricher(ev)
		session.Add(ev)

		if *count > limit {
			return
		}
		fmt.Fprintln(os.Stderr, formatLine(m, ev))
	})
}

func formatLine(m *uxn.Machine, ev *trace.Event) string {
	var b strings.Builder
	b.Grow(96)

	b.WriteString(colorize.Address(ev.PC))
	b.WriteString("  ")

	raw := fmt.Sprintf("%02x", ev.Ins)
	for i := 0; i < uxn.ImmSize(ev.Ins); i++ {
		raw += fmt.Sprintf("%02x", m.RamRead(ev.PC+1+uint16(i)))
	}
	b.WriteString(colorize.HexBytes(fmt.Sprintf("%-6s", raw)))
	b.WriteString("  ")

	b.WriteString(colorize.Instruction(fmt.Sprintf("%-8s", ev.Name)))

	if tags := ev.Tags.Strings(); len(tags) > 0 {
		b.WriteString(colorize.Comment("; " + strings.Join(tags, " ")))
	}
	b.WriteString("  ")
	b.WriteString(colorize.Detail(fmt.Sprintf("wst<%02x rst<%02x",
		m.Wst().Ptr(), m.Rst().Ptr())))
	return b.String()
}

func printStats(count, romSize int) {
	fmt.Fprintln(os.Stderr)
	fmt.Fprint(os.Stderr, colorize.Border("───────────────────────────── "))
	fmt.Fprintf(os.Stderr, "%s insn  %s rom bytes\n",
		colorize.Label(fmt.Sprintf("%d", count)),
		colorize.Label(fmt.Sprintf("%d", romSize)))
}

func runAsm(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	data, err := asm.Assemble(string(src))
	if err != nil {
		return err
	}

	compress, _ := cmd.Flags().GetBool("ulz")
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		// No output path: print the base64 transport form.
		fmt.Println(rom.ToBase64(data, compress))
		return nil
	}

	out := data
	if compress {
		out = ulz.Encode(data)
		if !strings.HasSuffix(output, ".ulz") {
			output += ".ulz"
		}
	}
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return fmt.Errorf("write rom: %w", err)
	}
	fmt.Fprintf(os.Stderr, "%s %d bytes -> %s\n",
		colorize.Detail("assembled"), len(data), output)
	return nil
}

func showInfo(cmd *cobra.Command, args []string) error {
	data, err := rom.ReadFile(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("ROM:    %s\n", args[0])
	fmt.Printf("Size:   %d bytes\n", len(data))
	fmt.Printf("Load:   %s\n", colorize.Address(uxn.ResetVector))
	fmt.Printf("Free:   %d bytes\n\n", uxn.MaxROMSize-len(data))

	fmt.Println(colorize.Header("Leading instructions:"))
	pc := 0
	for lines := 0; lines < 16 && pc < len(data); lines++ {
		ins := data[pc]
		raw := fmt.Sprintf("%02x", ins)
		imm := uxn.ImmSize(ins)
		for i := 1; i <= imm && pc+i < len(data); i++ {
			raw += fmt.Sprintf("%02x", data[pc+i])
		}
		fmt.Printf("  %s  %s  %s\n",
			colorize.Address(uint16(uxn.ResetVector+pc)),
			colorize.HexBytes(fmt.Sprintf("%-6s", raw)),
			colorize.Instruction(uxn.OpName(ins)))
		if ins == 0x00 {
			break
		}
		pc += 1 + imm
	}

	fmt.Println()
	fmt.Println(colorize.Header("Hexdump:"))
	for off := 0; off < len(data) && off < 128; off += 16 {
		end := off + 16
		if end > len(data) {
			end = len(data)
		}
		var hexes []string
		for _, b := range data[off:end] {
			hexes = append(hexes, fmt.Sprintf("%02x", b))
		}
		fmt.Printf("  %s  %s\n",
			colorize.Address(uint16(uxn.ResetVector+off)),
			colorize.HexBytes(strings.Join(hexes, " ")))
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	glog.Init(cfg.Verbose)

	var data []byte
	if len(args) == 1 {
		if data, err = rom.ReadFile(args[0]); err != nil {
			return err
		}
	}
	return ui.Run(cfg, data)
}
