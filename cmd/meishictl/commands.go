package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingusecase "meishiClient/internal/modules/booking/application/usecase"
	booking "meishiClient/internal/modules/booking/domain"
	gateway "meishiClient/internal/modules/gateway/domain"
	interactions "meishiClient/internal/modules/interactions/domain"
)

func runLogin(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet("login", env.stderr)
	username := fs.StringP("user", "u", "", "username")
	password := fs.StringP("password", "p", "", "password")
	role := fs.String("role", "", "account type: diner or owner (default from USER_ROLE)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var parsed gateway.Role
	if *role != "" {
		parsed = gateway.ParseRole(*role)
	}
	account, err := env.services.Session.Login(ctx, *username, *password, parsed)
	if err != nil {
		return errors.New(gateway.UserMessage(err))
	}
	return printJSON(env.stdout, account)
}

func runLogout(ctx context.Context, env *cliEnv, _ []string) error {
	return env.services.Session.Logout(ctx)
}

func runWhoami(ctx context.Context, env *cliEnv, _ []string) error {
	status, err := env.services.Session.Status(ctx)
	if err != nil {
		return err
	}
	return printJSON(env.stdout, status)
}

func runSlots(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet("slots", env.stderr)
	restaurant := fs.String("restaurant", "", "restaurant id (diners)")
	system := fs.String("system", "", "booking system id (owners)")
	date := fs.String("date", time.Now().Format(booking.DateLayout), "date, YYYY-MM-DD")
	people := fs.Int("people", booking.DefaultPartySize, "party size")
	owner := fs.Bool("owner", false, "list the owner's view of the slots")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := booking.ValidateDate(*date); err != nil {
		return err
	}
	audience := booking.AudienceDiner
	query := booking.SlotQuery{RestaurantID: booking.ID(*restaurant), Date: *date, People: *people}
	if *owner {
		audience = booking.AudienceOwner
		query = booking.SlotQuery{BookingSystem: booking.ID(*system), Date: *date}
	} else if err := requireFlag("restaurant", *restaurant); err != nil {
		return err
	}
	slots, err := env.services.Booking.FetchTimeSlots(ctx, audience, query)
	if err != nil {
		return errors.New(gateway.UserMessage(err))
	}
	return printJSON(env.stdout, slots)
}

// runBook walks a wizard from start to submission with the values given as flags.
func runBook(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet("book", env.stderr)
	restaurant := fs.String("restaurant", "", "restaurant id")
	owner := fs.Bool("owner", false, "book as the restaurant owner")
	edit := fs.String("edit", "", "id of an existing booking to edit (owner board)")
	date := fs.String("date", time.Now().Format(booking.DateLayout), "date, YYYY-MM-DD")
	people := fs.Int("people", booking.DefaultPartySize, "party size")
	slot := fs.String("slot", "", "time slot id (default: first open slot)")
	bookingType := fs.String("type", "", "booking type name")
	var info booking.PersonalInfo
	fs.StringVar(&info.FirstName, "first", "", "first name")
	fs.StringVar(&info.LastName, "last", "", "last name")
	fs.StringVar(&info.Phone, "phone", "", "phone")
	fs.StringVar(&info.Email, "email", "", "email")
	fs.StringVar(&info.Notes, "notes", "", "notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlag("restaurant", *restaurant); err != nil {
		return err
	}

	cfg := bookingusecase.WizardConfig{RestaurantID: booking.ID(*restaurant), Audience: booking.AudienceDiner}
	if *owner {
		cfg.Audience = booking.AudienceOwner
	}
	if *edit != "" {
		existing, err := findBooking(ctx, env, booking.ID(*edit))
		if err != nil {
			return err
		}
		cfg.Existing = existing
		cfg.Audience = booking.AudienceOwner
	}

	id, wizard, err := env.services.Wizards.Start(ctx, cfg)
	if err != nil {
		return err
	}
	defer env.services.Wizards.Close(id)

	// an edited booking keeps its own date and party size unless overridden
	if *edit == "" || fs.Changed("date") {
		if err := wizard.SetDate(ctx, *date); err != nil {
			return err
		}
	}
	if *edit == "" || fs.Changed("people") {
		if err := wizard.SetPartySize(ctx, *people); err != nil {
			return err
		}
	}
	if _, err := wizard.Next(); err != nil {
		return fmt.Errorf("no time slots for %s: %w", *date, err)
	}

	chosen := booking.ID(*slot)
	if chosen.IsZero() {
		chosen = wizard.View().Draft.TimeSlotID
	}
	if chosen.IsZero() {
		chosen = firstOpenSlot(wizard.View().Slots)
	}
	if chosen.IsZero() {
		return fmt.Errorf("no open time slot on %s", *date)
	}
	if chosen != wizard.View().Draft.TimeSlotID {
		if err := wizard.SelectTimeSlot(ctx, chosen); err != nil {
			return err
		}
	}

	phase, err := wizard.Next()
	if err != nil {
		return err
	}
	if phase == booking.PhaseBookingTypeSelection {
		if *bookingType != "" {
			if err := wizard.SelectBookingType(*bookingType); err != nil {
				return err
			}
		}
		if _, err := wizard.Next(); err != nil {
			return fmt.Errorf("choose a booking type with --type: %w", err)
		}
	}

	if *edit != "" && !fs.Changed("first") {
		info = wizard.View().Draft.PersonalInfo
	}
	if err := wizard.SetPersonalInfo(info); err != nil {
		return err
	}
	created, err := wizard.Submit(ctx)
	if err != nil {
		return errors.New(gateway.UserMessage(err))
	}
	return printJSON(env.stdout, created)
}

func findBooking(ctx context.Context, env *cliEnv, id booking.ID) (*booking.Booking, error) {
	bookings, err := env.services.Board.ListBookings(ctx, booking.BookingFilter{})
	if err != nil {
		return nil, errors.New(gateway.UserMessage(err))
	}
	for i := range bookings {
		if bookings[i].ID == id {
			return &bookings[i], nil
		}
	}
	return nil, fmt.Errorf("booking %s not found", id)
}

func firstOpenSlot(slots []booking.TimeSlotOption) booking.ID {
	for _, slot := range slots {
		if slot.IsOpen {
			return slot.ID
		}
	}
	return ""
}

func runBookings(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet("bookings", env.stderr)
	date := fs.String("date", "", "date, YYYY-MM-DD")
	system := fs.String("system", "", "booking system id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	bookings, err := env.services.Board.ListBookings(ctx, booking.BookingFilter{Date: *date, BookingSystem: booking.ID(*system)})
	if err != nil {
		return errors.New(gateway.UserMessage(err))
	}
	return printJSON(env.stdout, bookings)
}

func runStatus(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet("status", env.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: meishictl status <booking-id> <%s>", statusList())
	}
	updated, err := env.services.Board.ChangeStatus(ctx, booking.ID(fs.Arg(0)), fs.Arg(1))
	if err != nil {
		return errors.New(gateway.UserMessage(err))
	}
	return printJSON(env.stdout, updated)
}

func statusList() string {
	names := make([]string, 0, len(booking.Statuses()))
	for _, status := range booking.Statuses() {
		names = append(names, string(status))
	}
	return strings.Join(names, "|")
}

func runReact(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet("react", env.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 3 {
		return errors.New("usage: meishictl react <dish|restaurant> <id> <like|dislike|favorite>")
	}
	ref, err := interactions.NewEntityRef(fs.Arg(0), fs.Arg(1))
	if err != nil {
		return err
	}
	action, err := interactions.ParseAction(fs.Arg(2))
	if err != nil {
		return err
	}
	if err := seedInteraction(ctx, env, ref); err != nil {
		return err
	}
	state, err := env.services.Toggle.Toggle(ctx, ref, action)
	if err != nil {
		return errors.New(gateway.UserMessage(err))
	}
	return printJSON(env.stdout, map[string]any{"entity": ref.Key(), "state": state})
}

// seedInteraction loads the entity so the toggle starts from the server's state.
func seedInteraction(ctx context.Context, env *cliEnv, ref interactions.EntityRef) error {
	var err error
	switch ref.Kind {
	case interactions.KindDish:
		_, err = env.services.Catalog.GetDish(ctx, ref.ID)
	case interactions.KindRestaurant:
		_, err = env.services.Catalog.GetRestaurant(ctx, ref.ID)
	}
	if err != nil {
		return fmt.Errorf("load %s: %s", ref.Key(), gateway.UserMessage(err))
	}
	return nil
}
