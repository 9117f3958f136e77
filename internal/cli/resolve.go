package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gokepelemo/biensperience/internal/domain"
)

// resolveExperienceID resolves an experience identifier which can be a full
// ID or an unambiguous ID prefix.
func resolveExperienceID(ctx context.Context, app *App, input string) (domain.ID, error) {
	if input == "" {
		return "", fmt.Errorf("experience ID is required")
	}
	exps, err := app.Experiences.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]domain.ID, len(exps))
	for i, e := range exps {
		ids[i] = e.ID
	}
	return matchID("experience", ids, input)
}

// resolvePlanID resolves a plan identifier among the plans the acting user
// can see. Unknown input is passed through so the service reports it.
func resolvePlanID(ctx context.Context, app *App, input string) (domain.ID, error) {
	if input == "" {
		return "", fmt.Errorf("plan ID is required")
	}
	plans, err := app.Plans.ListForUser(ctx, app.User)
	if err != nil {
		return "", err
	}
	ids := make([]domain.ID, len(plans))
	for i, p := range plans {
		ids[i] = p.ID
	}
	id, err := matchID("plan", ids, input)
	if errors.Is(err, errNoMatch) {
		return domain.ParseID(input), nil
	}
	return id, err
}

// resolveItemID resolves an item within one experience or plan. The input is
// either a 1-based position as shown by "show" or an ID or ID prefix.
func resolveItemID(ids []domain.ID, input string) (domain.ID, error) {
	if pos, err := strconv.Atoi(input); err == nil {
		if pos < 1 || pos > len(ids) {
			return "", fmt.Errorf("item #%d out of range (1-%d)", pos, len(ids))
		}
		return ids[pos-1], nil
	}
	return matchID("item", ids, input)
}

var errNoMatch = errors.New("not found")

func matchID(kind string, ids []domain.ID, input string) (domain.ID, error) {
	want := domain.ParseID(input)
	for _, id := range ids {
		if id == want {
			return id, nil
		}
	}

	var matches []domain.ID
	for _, id := range ids {
		if strings.HasPrefix(id.String(), want.String()) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s %q: %w", kind, input, errNoMatch)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}
