package console

import (
	"context"
	"errors"
	"io"

	"cafe-system/internal/common/logger"
	"cafe-system/internal/domain"
	"cafe-system/internal/service"
)

const logoutChoice = 9

type action struct {
	key   int
	label string
	run   func(ctx context.Context, s *Session) error
}

// Controller is the role based menu loop. It starts anonymous, enters the
// menu of the resolved role after a successful login and returns to the
// top level on log out.
type Controller struct {
	svc *service.Service
	p   *Prompter
	lg  *logger.Logger
}

func NewController(svc *service.Service, p *Prompter) *Controller {
	return &Controller{svc: svc, p: p, lg: logger.New("console")}
}

// Run blocks until the operator exits or input is exhausted.
func (c *Controller) Run(ctx context.Context) error {
	c.greeting()
	for {
		c.p.Println("MAIN MENU")
		c.p.Println("---------")
		c.p.Println("1. Create user")
		c.p.Println("2. Log in")
		c.p.Println("9. < EXIT")

		choice, err := c.p.ReadChoice()
		if err != nil {
			return endOfInput(err)
		}
		switch choice {
		case 1:
			if err := c.createUser(ctx); err != nil {
				if fatal := c.report(nil, err); fatal != nil {
					return endOfInput(fatal)
				}
			}
		case 2:
			sess, err := c.logIn(ctx)
			if err != nil {
				if fatal := c.report(nil, err); fatal != nil {
					return endOfInput(fatal)
				}
				continue
			}
			if sess == nil {
				continue
			}
			if err := c.sessionLoop(ctx, sess); err != nil {
				return endOfInput(err)
			}
		case 9:
			return nil
		default:
			c.p.Println("Unrecognized choice!")
		}
	}
}

func (c *Controller) sessionLoop(ctx context.Context, s *Session) error {
	actions := c.menuFor(s.Role)
	for {
		c.p.Println("MAIN MENU")
		c.p.Println("---------")
		for _, a := range actions {
			c.p.Printf("%d. %s\n", a.key, a.label)
		}
		c.p.Println(".........................")
		c.p.Printf("%d. Log out\n", logoutChoice)

		choice, err := c.p.ReadChoice()
		if err != nil {
			return err
		}
		if choice == logoutChoice {
			s.lg.Info("logout", nil)
			return nil
		}

		a, ok := lookup(actions, choice)
		if !ok {
			c.p.Println("Unrecognized choice!")
			continue
		}
		if err := a.run(ctx, s); err != nil {
			if fatal := c.report(s, err); fatal != nil {
				return fatal
			}
		}
	}
}

func (c *Controller) menuFor(role domain.Role) []action {
	common := []action{
		{1, "Browse Menu by ItemName", c.browseByName},
		{2, "Browse Menu by Type", c.browseByType},
		{3, "Add Order", c.addOrder},
	}
	switch role {
	case domain.RoleEmployee:
		return append(common,
			action{4, "Update Order", c.staffUpdateOrder},
			action{5, "View Current Orders", c.viewCurrentOrders},
			action{6, "View Order Status", c.viewOrderStatus},
			action{7, "Update User Info", c.updateOwnInfo},
		)
	case domain.RoleManager:
		return append(common,
			action{4, "Update Order", c.staffUpdateOrder},
			action{5, "View Current Orders", c.viewCurrentOrders},
			action{6, "View Order Status", c.viewOrderStatus},
			action{7, "Update User Info", c.managerUpdateUser},
			action{8, "Update Menu", c.updateMenu},
		)
	default:
		return append(common,
			action{4, "Update Order", c.updateOrderComments},
			action{5, "View Order History", c.viewOrderHistory},
			action{6, "View Order Status", c.viewOrderStatus},
			action{7, "Update User Info", c.updateOwnInfo},
		)
	}
}

func lookup(actions []action, key int) (action, bool) {
	for _, a := range actions {
		if a.key == key {
			return a, true
		}
	}
	return action{}, false
}

// report prints a handler failure once and logs it. Running out of input is
// passed back so the loop can terminate.
func (c *Controller) report(s *Session, err error) error {
	if errors.Is(err, io.EOF) {
		return err
	}
	c.p.Errorln(err)
	lg := c.lg
	if s != nil {
		lg = s.lg
	}
	lg.Error("action_failed", err, nil)
	return nil
}

func (c *Controller) greeting() {
	c.p.Println()
	c.p.Println()
	c.p.Println("*******************************************************")
	c.p.Println("              User Interface                         ")
	c.p.Println("*******************************************************")
	c.p.Println()
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
