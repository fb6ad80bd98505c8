package console

import (
	"context"
	"fmt"
	"strings"

	"cafe-system/internal/connections/database"
	"cafe-system/internal/domain"
	"cafe-system/internal/service"
)

func (c *Controller) createUser(ctx context.Context) error {
	login, err := c.p.ReadLine("Please enter user login: ")
	if err != nil {
		return err
	}
	password, err := c.p.ReadLine("Please enter user password: ")
	if err != nil {
		return err
	}
	phone, err := c.p.ReadLine("Please enter user phone: ")
	if err != nil {
		return err
	}
	if err := c.svc.Auth.CreateUser(ctx, strings.TrimSpace(login), password, strings.TrimSpace(phone)); err != nil {
		return err
	}
	c.p.Println("User created.")
	return nil
}

// logIn returns nil without error when the credentials do not match.
func (c *Controller) logIn(ctx context.Context) (*Session, error) {
	login, err := c.p.ReadLine("Please enter your login: ")
	if err != nil {
		return nil, err
	}
	password, err := c.p.ReadLine("Please enter your password: ")
	if err != nil {
		return nil, err
	}
	id, ok, err := c.svc.Auth.Login(ctx, strings.TrimSpace(login), password)
	if err != nil {
		return nil, err
	}
	if !ok {
		c.p.Println("Invalid login or password.")
		return nil, nil
	}
	role, err := c.svc.Auth.ResolveRole(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve role of %s: %w", id, err)
	}
	s := newSession(id, role, c.lg)
	s.lg.Info("login", nil)
	c.p.Printf("Welcome, %s (%s)!\n", id, role)
	return s, nil
}

func (c *Controller) browseByName(ctx context.Context, _ *Session) error {
	name, err := c.p.ReadLine("Please enter item name: ")
	if err != nil {
		return err
	}
	res, err := c.svc.Menu.BrowseByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return err
	}
	return c.printResult(res, "No menu item with that name.")
}

func (c *Controller) browseByType(ctx context.Context, _ *Session) error {
	typ, err := c.p.ReadLine("Please enter item type: ")
	if err != nil {
		return err
	}
	res, err := c.svc.Menu.BrowseByType(ctx, strings.TrimSpace(typ))
	if err != nil {
		return err
	}
	return c.printResult(res, "No menu items of that type.")
}

func (c *Controller) addOrder(ctx context.Context, s *Session) error {
	c.p.Println("Enter one item name per line, finish with an empty line.")
	var items []string
	for {
		line, err := c.p.ReadLine("Item: ")
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			break
		}
		items = append(items, line)
	}
	order, err := c.svc.Orders.PlaceOrder(ctx, s.Login, items)
	if err != nil {
		return err
	}
	c.p.Printf("Order %d placed, total $%.2f\n", order.ID, order.Total)
	return nil
}

func (c *Controller) updateOrderComments(ctx context.Context, s *Session) error {
	id, err := c.p.ReadInt("Please enter order ID: ")
	if err != nil {
		return err
	}
	comments, err := c.p.ReadLine("Please enter comments (applied to every item of the order): ")
	if err != nil {
		return err
	}
	res, err := c.svc.Orders.UpdateComments(ctx, s.Login, int64(id), comments)
	if err != nil {
		return err
	}
	return c.printResult(res, "")
}

func (c *Controller) staffUpdateOrder(ctx context.Context, s *Session) error {
	id, err := c.p.ReadInt("Please enter order ID: ")
	if err != nil {
		return err
	}
	c.p.Println("1. Mark as paid")
	c.p.Println("2. Update item status")
	choice, err := c.p.ReadChoice()
	if err != nil {
		return err
	}

	var res database.Result
	switch choice {
	case 1:
		res, err = c.svc.Orders.MarkPaid(ctx, s.Login, int64(id))
	case 2:
		item, rerr := c.p.ReadLine("Please enter item name (empty for all items): ")
		if rerr != nil {
			return rerr
		}
		status, rerr := c.p.ReadLine("Please enter new status: ")
		if rerr != nil {
			return rerr
		}
		res, err = c.svc.Orders.SetItemStatus(ctx, s.Login, int64(id), item, status)
	default:
		c.p.Println("Unrecognized choice!")
		return nil
	}
	if err != nil {
		return err
	}
	return c.printResult(res, "")
}

func (c *Controller) viewOrderHistory(ctx context.Context, s *Session) error {
	res, err := c.svc.Orders.History(ctx, s.Login)
	if err != nil {
		return err
	}
	return c.printResult(res, "You have no orders yet.")
}

// viewOrderStatus limits customers to their own orders.
func (c *Controller) viewOrderStatus(ctx context.Context, s *Session) error {
	id, err := c.p.ReadInt("Please enter order ID: ")
	if err != nil {
		return err
	}
	owner := s.Login
	if s.Role.Staff() {
		owner = ""
	}
	res, err := c.svc.Orders.Status(ctx, int64(id), owner)
	if err != nil {
		return err
	}
	return c.printResult(res, "")
}

func (c *Controller) viewCurrentOrders(ctx context.Context, _ *Session) error {
	res, err := c.svc.Orders.Current(ctx)
	if err != nil {
		return err
	}
	return c.printResult(res, "No open orders in the last 24 hours.")
}

func (c *Controller) updateOwnInfo(ctx context.Context, s *Session) error {
	field, ok, err := c.chooseUserField(false)
	if err != nil || !ok {
		return err
	}
	return c.updateUser(ctx, s.Login, field)
}

func (c *Controller) managerUpdateUser(ctx context.Context, _ *Session) error {
	login, err := c.p.ReadLine("Please enter user login: ")
	if err != nil {
		return err
	}
	field, ok, err := c.chooseUserField(true)
	if err != nil || !ok {
		return err
	}
	return c.updateUser(ctx, strings.TrimSpace(login), field)
}

func (c *Controller) chooseUserField(withRole bool) (domain.UserField, bool, error) {
	c.p.Println("1. Phone number")
	c.p.Println("2. Password")
	c.p.Println("3. Favourite items")
	if withRole {
		c.p.Println("4. Role")
	}
	choice, err := c.p.ReadChoice()
	if err != nil {
		return "", false, err
	}
	switch {
	case choice == 1:
		return domain.FieldPhone, true, nil
	case choice == 2:
		return domain.FieldPassword, true, nil
	case choice == 3:
		return domain.FieldFavItems, true, nil
	case choice == 4 && withRole:
		return domain.FieldRole, true, nil
	}
	c.p.Println("Unrecognized choice!")
	return "", false, nil
}

func (c *Controller) updateUser(ctx context.Context, login string, field domain.UserField) error {
	value, err := c.p.ReadLine("Please enter new value: ")
	if err != nil {
		return err
	}
	if field != domain.FieldPassword {
		value = strings.TrimSpace(value)
	}
	res, err := c.svc.Users.Update(ctx, login, field, value)
	if err != nil {
		return err
	}
	return c.printResult(res, "")
}

func (c *Controller) updateMenu(ctx context.Context, _ *Session) error {
	c.p.Println("1. Add item")
	c.p.Println("2. Delete item")
	c.p.Println("3. Update item")
	choice, err := c.p.ReadChoice()
	if err != nil {
		return err
	}
	switch choice {
	case 1:
		return c.addMenuItem(ctx)
	case 2:
		name, err := c.p.ReadLine("Please enter item name: ")
		if err != nil {
			return err
		}
		if err := c.svc.Menu.DeleteItem(ctx, strings.TrimSpace(name)); err != nil {
			return err
		}
		c.p.Println("Item deleted.")
		return nil
	case 3:
		return c.updateMenuItem(ctx)
	}
	c.p.Println("Unrecognized choice!")
	return nil
}

func (c *Controller) addMenuItem(ctx context.Context) error {
	var item domain.MenuItem
	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Please enter item name: ", &item.Name},
		{"Please enter item type: ", &item.Type},
	} {
		v, err := c.p.ReadLine(f.prompt)
		if err != nil {
			return err
		}
		*f.dst = strings.TrimSpace(v)
	}
	raw, err := c.p.ReadLine("Please enter price: ")
	if err != nil {
		return err
	}
	if item.Price, err = service.ParsePrice(raw); err != nil {
		return err
	}
	if item.Description, err = c.p.ReadLine("Please enter description: "); err != nil {
		return err
	}
	if err := c.svc.Menu.AddItem(ctx, item); err != nil {
		return err
	}
	c.p.Println("Item added.")
	return nil
}

func (c *Controller) updateMenuItem(ctx context.Context) error {
	name, err := c.p.ReadLine("Please enter item name: ")
	if err != nil {
		return err
	}
	c.p.Println("1. Type")
	c.p.Println("2. Price")
	c.p.Println("3. Description")
	choice, err := c.p.ReadChoice()
	if err != nil {
		return err
	}
	var field domain.MenuField
	switch choice {
	case 1:
		field = domain.FieldType
	case 2:
		field = domain.FieldPrice
	case 3:
		field = domain.FieldDescription
	default:
		c.p.Println("Unrecognized choice!")
		return nil
	}
	value, err := c.p.ReadLine("Please enter new value: ")
	if err != nil {
		return err
	}
	res, err := c.svc.Menu.UpdateItem(ctx, strings.TrimSpace(name), field, value)
	if err != nil {
		return err
	}
	return c.printResult(res, "")
}

// printResult writes res, or empty when it has no rows and empty is set.
func (c *Controller) printResult(res database.Result, empty string) error {
	if res.Len() == 0 {
		if empty != "" {
			c.p.Println(empty)
		}
		return nil
	}
	_, err := res.WriteTo(c.p.out)
	return err
}
