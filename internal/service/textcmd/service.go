// Package textcmd turns short text messages into drink operations. It sits
// in front of the dispense and credits services for channels like SMS where
// the sender is identified out of band and the only possible response is a
// human-readable line of text. Every outcome, including a failed dispense,
// becomes a friendly reply; the transport always answers 200.
package textcmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/vendstack/barkeep/internal/domain"
	"github.com/vendstack/barkeep/internal/service/dispense"
)

type dispenser interface {
	Drop(ctx context.Context, in dispense.DropInput) (*dispense.DropResult, error)
	ListMachines(ctx context.Context) ([]dispense.MachineListing, error)
}

type balanceReader interface {
	GetByUID(ctx context.Context, uid string) (*domain.DirectoryUser, error)
}

type Service struct {
	drinks  dispenser
	credits balanceReader
	log     *slog.Logger
}

func New(drinks dispenser, credits balanceReader, log *slog.Logger) *Service {
	return &Service{
		drinks:  drinks,
		credits: credits,
		log:     log,
	}
}

const usageReply = "Commands: credits | machines | show <machine> | drop <machine> <slot>"

// Handle executes one text command on behalf of username and returns the
// reply to send back. The returned string is always safe to show the sender;
// Handle never returns an error.
func (s *Service) Handle(ctx context.Context, username, message string) string {
	cmd := parse(message)

	s.log.InfoContext(ctx, "text command received",
		slog.String("username", username),
		slog.String("verb", cmd.verb),
	)

	switch cmd.verb {
	case "credits", "balance":
		return s.handleCredits(ctx, username)
	case "machines", "list":
		return s.handleMachines(ctx)
	case "show":
		return s.handleShow(ctx, cmd)
	case "drop":
		return s.handleDrop(ctx, username, cmd)
	case "help", "":
		return usageReply
	default:
		return fmt.Sprintf("Unknown command '%s'. %s", cmd.verb, usageReply)
	}
}

func (s *Service) handleCredits(ctx context.Context, username string) string {
	user, err := s.credits.GetByUID(ctx, username)
	if err != nil {
		s.log.ErrorContext(ctx, "text credits lookup failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, domain.ErrNotFound) {
			return "I don't know who you are."
		}
		return "Couldn't reach the credit directory. Try again in a bit."
	}
	return fmt.Sprintf("You have %d credits.", user.Balance())
}

func (s *Service) handleMachines(ctx context.Context) string {
	listings, err := s.drinks.ListMachines(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "text machine listing failed", slog.String("error", err.Error()))
		return "Couldn't fetch the machine list. Try again in a bit."
	}
	if len(listings) == 0 {
		return "No machines are registered."
	}

	names := make([]string, 0, len(listings))
	for _, m := range listings {
		name := m.Name
		if !m.Online {
			name += " (offline)"
		}
		names = append(names, name)
	}
	return "Machines: " + strings.Join(names, ", ")
}

func (s *Service) handleShow(ctx context.Context, cmd command) string {
	name, ok := cmd.arg(0)
	if !ok {
		return "Which machine? Usage: show <machine>"
	}

	listings, err := s.drinks.ListMachines(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "text machine listing failed", slog.String("error", err.Error()))
		return "Couldn't fetch the machine list. Try again in a bit."
	}

	for _, m := range listings {
		if !strings.EqualFold(m.Name, name) {
			continue
		}
		return formatMachine(m)
	}
	return fmt.Sprintf("No machine named '%s'. Send 'machines' for the list.", name)
}

func formatMachine(m dispense.MachineListing) string {
	var b strings.Builder
	b.WriteString(m.DisplayName)
	if !m.Online {
		b.WriteString(" (offline)")
	}
	for _, slot := range m.Slots {
		b.WriteString(fmt.Sprintf("\n%d: %s - %d credits", slot.Number, slot.Item.Name, slot.Item.Price))
		if slot.Empty {
			b.WriteString(" (empty)")
		}
	}
	if len(m.Slots) == 0 {
		b.WriteString("\nNo slots configured.")
	}
	return b.String()
}

func (s *Service) handleDrop(ctx context.Context, username string, cmd command) string {
	machine, ok := cmd.arg(0)
	if !ok {
		return "Usage: drop <machine> <slot>"
	}
	slotArg, ok := cmd.arg(1)
	if !ok {
		return "Usage: drop <machine> <slot>"
	}
	slot, err := strconv.ParseInt(slotArg, 10, 32)
	if err != nil || slot < 1 {
		return fmt.Sprintf("'%s' isn't a slot number. Usage: drop <machine> <slot>", slotArg)
	}

	result, err := s.drinks.Drop(ctx, dispense.DropInput{
		Username: username,
		Machine:  strings.ToLower(machine),
		Slot:     int32(slot),
	})
	if err != nil {
		return dropFailureReply(machine, err)
	}

	return fmt.Sprintf("Dropped %s from %s. You have %d credits left.",
		result.ItemName, result.Machine, result.NewBalance)
}

// dropFailureReply translates dispense failures into replies a sender can
// act on. Device failures get distinct wording because the remedies differ:
// an offline machine needs an admin, a mid-drop error needs eyes on the
// machine before retrying.
func dropFailureReply(machine string, err error) string {
	var devErr *domain.DeviceError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Sprintf("No such machine or slot. Send 'show %s' to see what's there.", machine)
	case errors.Is(err, domain.ErrMachineOffline):
		return fmt.Sprintf("%s isn't responding. Nothing was dropped or charged.", machine)
	case errors.Is(err, domain.ErrSlotEmpty):
		return "That slot is empty. Pick another one."
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "Not enough credits for that."
	case errors.Is(err, domain.ErrUnauthorized):
		return "I don't know who you are."
	case errors.As(err, &devErr):
		return fmt.Sprintf("%s refused the drop. You weren't charged; check the machine before retrying.", machine)
	case errors.Is(err, domain.ErrValidation):
		return usageReply
	default:
		return "Something went wrong. Nothing was charged."
	}
}
