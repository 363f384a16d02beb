package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/scienceol/labstock/internal/app"
	"github.com/scienceol/labstock/internal/config"
	"github.com/scienceol/labstock/pkg/common/code"
	core "github.com/scienceol/labstock/pkg/core/inventory"
	"github.com/scienceol/labstock/pkg/core/status"
)

func New() *cobra.Command {
	var a *app.App
	return &cobra.Command{
		Use:          "console",
		Long:         "Interactive inventory console",
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			a, err = app.New(cmd.Context(), config.Global())
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				homeDir = "."
			}
			rl, err := readline.NewEx(&readline.Config{
				Prompt:            "\033[1;36mlabstock>\033[0m ",
				HistoryFile:       homeDir + "/.labstock_history",
				InterruptPrompt:   "^C",
				EOFPrompt:         "exit",
				HistorySearchFold: true,
				AutoComplete:      completer(),
			})
			if err != nil {
				return fmt.Errorf("failed to initialize readline: %w", err)
			}
			defer rl.Close()
			return NewConsole(a.Service, rl.Stdout()).Run(cmd.Context(), rl)
		},
		PostRunE: func(cmd *cobra.Command, _ []string) error {
			if a != nil {
				a.Close(context.WithoutCancel(cmd.Context()))
			}
			return nil
		},
	}
}

func completer() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(commands))
	for _, c := range commands {
		items = append(items, readline.PcItem(c.name))
	}
	return readline.NewPrefixCompleter(items...)
}

// LineReader is satisfied by *readline.Instance.
type LineReader interface {
	Readline() (string, error)
}

type Console struct {
	svc core.Service
	out io.Writer
}

func NewConsole(svc core.Service, out io.Writer) *Console {
	return &Console{svc: svc, out: out}
}

type command struct {
	name  string
	usage string
	run   func(c *Console, ctx context.Context, args *args) error
}

var commands []command

func init() {
	commands = []command{
		{"list", "list [status=] [cabinet=] [name=] [hazard=] [sort=] [desc=true] [page=] [size=]", (*Console).list},
		{"show", "show <id>", (*Console).show},
		{"create", "create name= formula= amount= [capacity=] [cabinet=] [expiry=YYYY-MM-DD] [cas=]", (*Console).create},
		{"out", "out <id> <quantity>", (*Console).outbound},
		{"restock", "restock <id> <quantity>", (*Console).restock},
		{"dispose", "dispose <id>", (*Console).dispose},
		{"borrow", "borrow <id> <borrower> <amount> [return=YYYY-MM-DD] [purpose=]", (*Console).borrow},
		{"return", "return <id> <amount>", (*Console).giveBack},
		{"summary", "summary", (*Console).summary},
		{"cabinets", "cabinets", (*Console).cabinets},
		{"alloc", "alloc [cabinet]", (*Console).allocate},
		{"autofill", "autofill [name=] [cas=]", (*Console).autofill},
		{"export", "export [key]", (*Console).export},
		{"sweep", "sweep", (*Console).sweep},
		{"help", "help", (*Console).help},
	}
}

var errQuit = errors.New("quit")

func (c *Console) Run(ctx context.Context, rl LineReader) error {
	fmt.Fprintln(c.out, "labstock console, 'help' for commands, 'exit' to quit.")
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				return nil
			}
			return err
		}
		if err := c.Exec(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintf(c.out, "\033[1;31mError:\033[0m %v\n", err)
		}
	}
}

// Exec runs one console line.
func (c *Console) Exec(ctx context.Context, line string) error {
	fields, err := split(line)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	name := strings.ToLower(fields[0])
	if name == "exit" || name == "quit" || name == `\q` {
		return errQuit
	}
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd.run(c, ctx, parseArgs(fields[1:]))
		}
	}
	return code.ParamErr.WithMsgf("unknown command %q", fields[0])
}

func (c *Console) help(context.Context, *args) error {
	t := c.table()
	t.AppendHeader(table.Row{"Command", "Usage"})
	for _, cmd := range commands {
		t.AppendRow(table.Row{cmd.name, cmd.usage})
	}
	t.Render()
	return nil
}

func (c *Console) table() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.SetStyle(table.StyleLight)
	return t
}

var statusColor = map[status.Status]text.Colors{
	status.Expired:           {text.FgRed, text.Bold},
	status.PartiallyBorrowed: {text.FgMagenta},
	status.ExpiringSoon:      {text.FgYellow},
	status.CriticalStock:     {text.FgRed},
	status.LowStock:          {text.FgHiYellow},
	status.InStock:           {text.FgGreen},
}

func colored(s status.Status) string {
	if colors, ok := statusColor[s]; ok {
		return colors.Sprint(string(s))
	}
	return string(s)
}

func (c *Console) printRecords(list []*core.ReagentResp) {
	t := c.table()
	t.AppendHeader(table.Row{"ID", "Name", "Formula", "Amount", "Capacity", "Cabinet", "Slot", "Expiry", "Status"})
	for _, r := range list {
		t.AppendRow(table.Row{
			r.ID, r.Name, r.Formula,
			strconv.FormatFloat(r.CurrentAmount, 'f', -1, 64),
			strconv.FormatFloat(r.Capacity, 'f', -1, 64),
			r.CabinetID, r.SlotLabel, r.ExpiryDate.Format("2006-01-02"), colored(r.Status),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	t.Render()
}

func (c *Console) list(ctx context.Context, a *args) error {
	req := &core.QueryReq{
		Status:      a.get("status"),
		CabinetID:   a.get("cabinet"),
		Name:        a.get("name"),
		HazardClass: a.get("hazard"),
		SortBy:      core.SortField(a.get("sort")),
		Desc:        a.get("desc") == "true",
	}
	var err error
	if req.Page, err = a.int("page"); err != nil {
		return err
	}
	if req.PageSize, err = a.int("size"); err != nil {
		return err
	}
	page, err := c.svc.Query(ctx, req)
	if err != nil {
		return err
	}
	c.printRecords(page.Data)
	fmt.Fprintf(c.out, "page %d, %d of %d records\n", page.Page, len(page.Data), page.Total)
	return nil
}

func (c *Console) show(ctx context.Context, a *args) error {
	id, err := a.pos(0, "id")
	if err != nil {
		return err
	}
	r, err := c.svc.Detail(ctx, &core.DetailReq{ID: id})
	if err != nil {
		return err
	}
	t := c.table()
	t.AppendRows([]table.Row{
		{"ID", r.ID},
		{"Name", r.Name},
		{"Formula", r.Formula},
		{"CAS", r.CAS},
		{"Hazard", r.HazardClass},
		{"Amount", fmt.Sprintf("%v / %v %s", r.CurrentAmount, r.Capacity, r.Unit)},
		{"Location", r.CabinetID + " " + r.SlotLabel},
		{"Expiry", r.ExpiryDate.Format("2006-01-02")},
		{"Status", colored(r.Status)},
	})
	if r.Borrow != nil {
		t.AppendRow(table.Row{"Borrowed", fmt.Sprintf("%v by %s until %s",
			r.Borrow.BorrowedAmount, r.Borrow.BorrowerName, r.Borrow.ExpectedReturnDate.Format("2006-01-02"))})
	}
	t.Render()
	return nil
}

func (c *Console) create(ctx context.Context, a *args) error {
	req := &core.CreateReq{
		Name:       a.get("name"),
		Formula:    a.get("formula"),
		CAS:        a.get("cas"),
		CabinetID:  a.get("cabinet"),
		ExpiryDate: a.get("expiry"),
	}
	if v := a.get("amount"); v != "" {
		amount, err := number("amount", v)
		if err != nil {
			return err
		}
		req.CurrentAmount = &amount
	}
	var err error
	if req.Capacity, err = a.float("capacity"); err != nil {
		return err
	}
	r, err := c.svc.Create(ctx, req)
	if err != nil {
		return err
	}
	c.printRecords([]*core.ReagentResp{r})
	return nil
}

func (c *Console) quantity(a *args) (*core.QuantityReq, error) {
	id, err := a.pos(0, "id")
	if err != nil {
		return nil, err
	}
	qty, err := a.posFloat(1, "quantity")
	if err != nil {
		return nil, err
	}
	return &core.QuantityReq{ID: id, Quantity: qty}, nil
}

func (c *Console) outbound(ctx context.Context, a *args) error {
	req, err := c.quantity(a)
	if err != nil {
		return err
	}
	r, err := c.svc.Outbound(ctx, req)
	if err != nil {
		return err
	}
	c.printRecords([]*core.ReagentResp{r})
	return nil
}

func (c *Console) restock(ctx context.Context, a *args) error {
	req, err := c.quantity(a)
	if err != nil {
		return err
	}
	res, err := c.svc.Restock(ctx, req)
	if err != nil {
		return err
	}
	c.printRecords([]*core.ReagentResp{res.Reagent})
	if res.Clamped {
		fmt.Fprintf(c.out, "clamped: applied %v of %v, %v over capacity\n", res.Applied, res.Requested, res.Excess)
	}
	return nil
}

func (c *Console) dispose(ctx context.Context, a *args) error {
	id, err := a.pos(0, "id")
	if err != nil {
		return err
	}
	r, err := c.svc.Dispose(ctx, &core.DisposeReq{ID: id})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "disposed %s, freed %s %s\n", r.ID, r.CabinetID, r.SlotLabel)
	return nil
}

func (c *Console) borrow(ctx context.Context, a *args) error {
	id, err := a.pos(0, "id")
	if err != nil {
		return err
	}
	borrower, err := a.pos(1, "borrower")
	if err != nil {
		return err
	}
	amount, err := a.posFloat(2, "amount")
	if err != nil {
		return err
	}
	r, err := c.svc.Borrow(ctx, &core.BorrowReq{
		ID:                 id,
		BorrowerName:       borrower,
		Amount:             amount,
		ExpectedReturnDate: a.get("return"),
		Purpose:            a.get("purpose"),
	})
	if err != nil {
		return err
	}
	c.printRecords([]*core.ReagentResp{r})
	return nil
}

func (c *Console) giveBack(ctx context.Context, a *args) error {
	id, err := a.pos(0, "id")
	if err != nil {
		return err
	}
	amount, err := a.posFloat(1, "amount")
	if err != nil {
		return err
	}
	r, err := c.svc.Return(ctx, &core.ReturnReq{ID: id, Amount: amount})
	if err != nil {
		return err
	}
	c.printRecords([]*core.ReagentResp{r})
	return nil
}

func (c *Console) summary(ctx context.Context, _ *args) error {
	sum, err := c.svc.Summary(ctx)
	if err != nil {
		return err
	}
	t := c.table()
	t.AppendHeader(table.Row{"Status", "Count"})
	for _, s := range status.All {
		t.AppendRow(table.Row{colored(s), sum.Counts[s]})
	}
	t.AppendFooter(table.Row{"total", sum.Total})
	t.Render()
	fmt.Fprintf(c.out, "%d of %d slots free\n", sum.FreeSlots, sum.TotalCapacity)
	return nil
}

func (c *Console) cabinets(ctx context.Context, _ *args) error {
	list, err := c.svc.Cabinets(ctx)
	if err != nil {
		return err
	}
	t := c.table()
	t.AppendHeader(table.Row{"Cabinet", "Family", "Shelves", "Slots/Shelf", "Occupied", "Capacity"})
	for _, cab := range list {
		t.AppendRow(table.Row{cab.ID, cab.Family, cab.Shelves, cab.SlotsPerShelf, cab.Occupied, cab.Capacity})
	}
	t.Render()
	return nil
}

func (c *Console) allocate(ctx context.Context, a *args) error {
	cabinetID, _ := a.pos(0, "cabinet")
	r, err := c.svc.Allocate(ctx, &core.AllocateReq{CabinetID: cabinetID})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "next slot: %s %s\n", r.CabinetID, r.Label)
	return nil
}

func (c *Console) autofill(ctx context.Context, a *args) error {
	r, err := c.svc.Autofill(ctx, &core.AutofillReq{Name: a.get("name"), CAS: a.get("cas")})
	if err != nil {
		return err
	}
	t := c.table()
	t.AppendRows([]table.Row{
		{"Source", r.Source},
		{"Name", r.Name},
		{"Formula", r.Formula},
		{"CAS", r.CAS},
		{"Hazard", r.HazardClass},
		{"Molecular weight", r.MolecularWeight},
	})
	t.Render()
	return nil
}

func (c *Console) export(ctx context.Context, a *args) error {
	key, _ := a.pos(0, "key")
	r, err := c.svc.Export(ctx, &core.ExportReq{Key: key})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "exported %d records to %s\n", r.Count, r.Location)
	return nil
}

func (c *Console) sweep(ctx context.Context, _ *args) error {
	r, err := c.svc.Sweep(ctx)
	if err != nil {
		return err
	}
	if len(r.Changed) > 0 {
		c.printRecords(r.Changed)
	}
	fmt.Fprintf(c.out, "%d of %d records changed status on %s\n", len(r.Changed), r.Checked, r.Today.Format("2006-01-02"))
	return nil
}
