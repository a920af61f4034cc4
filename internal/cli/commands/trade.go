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

type borrowCmd struct{}

func (borrowCmd) Name() string        { return "borrow" }
func (borrowCmd) Description() string { return "Borrow an available item" }
func (borrowCmd) Usage() string       { return "borrow <item-id>" }

func (borrowCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return acquire(ctx, cfg, args[0], view.Borrowed)
}

type buyCmd struct{}

func (buyCmd) Name() string        { return "buy" }
func (buyCmd) Description() string { return "Buy an item listed for sale" }
func (buyCmd) Usage() string       { return "buy <item-id>" }

func (buyCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return acquire(ctx, cfg, args[0], view.Purchased)
}

func acquire(ctx context.Context, cfg *config.Config, id string, rel view.Relation) error {
	e, err := newEnv(cfg)
	if err != nil {
		return err
	}
	sess, err := e.session()
	if err != nil {
		return err
	}
	var it *model.Item
	if rel == view.Borrowed {
		it, err = e.api.Borrow(ctx, sess, id)
	} else {
		it, err = e.api.Buy(ctx, sess, id)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, view.Render(view.CustomerCard{Item: *it, Relation: rel, ViewerID: sess.User.ID}))
	return nil
}

type rateCmd struct{}

func (rateCmd) Name() string        { return "rate" }
func (rateCmd) Description() string { return "Rate an item you borrowed or bought" }
func (rateCmd) Usage() string       { return "rate <item-id> <1-5> [comment...]" }

func (rateCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	stars, err := strconv.Atoi(args[1])
	if err != nil {
		return ErrUsage
	}
	comment := strings.Join(args[2:], " ")

	e, err := newEnv(cfg)
	if err != nil {
		return err
	}
	sess, err := e.session()
	if err != nil {
		return err
	}
	ratings, err := e.api.Rate(ctx, sess, args[0], stars, comment)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Thanks! The item now has %d rating(s)\n", len(ratings))
	return nil
}

func init() {
	RegisterCmd(borrowCmd{})
	RegisterCmd(buyCmd{})
	RegisterCmd(rateCmd{})
}
