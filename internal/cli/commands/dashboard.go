package commands

import (
	"Neighborly/internal/cli/model"
	"Neighborly/internal/cli/model/view"
	"Neighborly/internal/config"
	"context"
	"fmt"
)

type lenderCmd struct{}

func (lenderCmd) Name() string        { return "lender" }
func (lenderCmd) Description() string { return "Show your listings by status" }
func (lenderCmd) Usage() string       { return "lender" }

func (lenderCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	e, err := newEnv(cfg)
	if err != nil {
		return err
	}
	sess, err := e.session()
	if err != nil {
		return err
	}
	d, err := e.api.Lender(ctx, sess)
	if err != nil {
		return err
	}
	section := func(title string, items []model.Item) {
		cards := make([]view.Card, 0, len(items))
		for _, it := range items {
			cards = append(cards, view.LenderCard{Item: it})
		}
		fmt.Fprintf(Out, "%s (%d)\n", title, len(items))
		fmt.Fprint(Out, view.RenderAll(cards, "  none"))
	}
	section("Available", d.Available)
	section("Borrowed", d.Borrowed)
	section("Sold", d.Sold)
	return nil
}

type customerCmd struct{}

func (customerCmd) Name() string        { return "customer" }
func (customerCmd) Description() string { return "Show what you borrowed and bought" }
func (customerCmd) Usage() string       { return "customer" }

func (customerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	e, err := newEnv(cfg)
	if err != nil {
		return err
	}
	sess, err := e.session()
	if err != nil {
		return err
	}
	d, err := e.api.Customer(ctx, sess)
	if err != nil {
		return err
	}
	section := func(title string, items []model.Item, rel view.Relation) {
		cards := make([]view.Card, 0, len(items))
		for _, it := range items {
			cards = append(cards, view.CustomerCard{Item: it, Relation: rel, ViewerID: sess.User.ID})
		}
		fmt.Fprintf(Out, "%s (%d)\n", title, len(items))
		fmt.Fprint(Out, view.RenderAll(cards, "  none"))
	}
	section("Borrowed", d.Borrowed, view.Borrowed)
	section("Purchased", d.Purchased, view.Purchased)
	return nil
}

type recommendCmd struct{}

func (recommendCmd) Name() string        { return "recommend" }
func (recommendCmd) Description() string { return "Suggest items based on your history" }
func (recommendCmd) Usage() string       { return "recommend" }

func (recommendCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	e, err := newEnv(cfg)
	if err != nil {
		return err
	}
	sess, err := e.session()
	if err != nil {
		return err
	}
	items, err := e.api.Recommendations(ctx, sess)
	if err != nil {
		return err
	}
	cards := make([]view.Card, 0, len(items))
	for _, it := range items {
		cards = append(cards, view.MarketCard{Item: it, ViewerID: sess.User.ID})
	}
	fmt.Fprint(Out, view.RenderAll(cards, "No recommendations yet. Borrow or buy something first."))
	return nil
}

func init() {
	RegisterCmd(lenderCmd{})
	RegisterCmd(customerCmd{})
	RegisterCmd(recommendCmd{})
}
