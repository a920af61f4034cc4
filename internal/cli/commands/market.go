package commands

import (
	"Neighborly/internal/cli/model"
	"Neighborly/internal/cli/model/view"
	"Neighborly/internal/config"
	"context"
	"fmt"
	"strconv"
	"strings"
)

type marketCmd struct{}

func (marketCmd) Name() string        { return "market" }
func (marketCmd) Description() string { return "Show items available to borrow or buy" }
func (marketCmd) Usage() string       { return "market" }

func (marketCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	e, err := newEnv(cfg)
	if err != nil {
		return err
	}
	items, err := e.api.Market(ctx)
	if err != nil {
		return err
	}
	viewer := ""
	if sess := e.optionalSession(); sess != nil {
		viewer = sess.User.ID
	}
	cards := make([]view.Card, 0, len(items))
	for _, it := range items {
		cards = append(cards, view.MarketCard{Item: it, ViewerID: viewer})
	}
	fmt.Fprint(Out, view.RenderAll(cards, "Nothing on the market yet"))
	return nil
}

type listCmd struct{}

func (listCmd) Name() string        { return "list" }
func (listCmd) Description() string { return "List an item for borrowing or sale" }
func (listCmd) Usage() string {
	return "list <borrow|sale> <category> <price> <name> <description> [image]"
}

func (listCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 5 && len(args) != 6 {
		return ErrUsage
	}
	kind := strings.ToLower(args[0])
	if kind != "borrow" && kind != "sale" {
		return ErrUsage
	}
	price, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid price %q", args[2])
	}
	in := model.NewListing{
		ListingType: kind,
		Category:    args[1],
		Price:       price,
		Name:        args[3],
		Description: args[4],
	}
	if len(args) == 6 {
		in.ImagePath = args[5]
	}

	e, err := newEnv(cfg)
	if err != nil {
		return err
	}
	sess, err := e.session()
	if err != nil {
		return err
	}
	it, err := e.api.CreateListing(ctx, sess, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Listed:")
	fmt.Fprintln(Out, view.Render(view.LenderCard{Item: *it}))
	return nil
}

func init() {
	RegisterCmd(marketCmd{})
	RegisterCmd(listCmd{})
}
