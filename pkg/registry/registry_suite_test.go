package registry_test

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/amirasaad/banco/pkg/domain/account"
	"github.com/amirasaad/banco/pkg/registry"
	"github.com/stretchr/testify/suite"
)

// OpenSequenceSuite drives random sequences of Open calls and checks the
// registry invariants after every step.
type OpenSequenceSuite struct {
	suite.Suite
	rng      *rand.Rand
	registry *registry.Registry
}

func (s *OpenSequenceSuite) SetupTest() {
	s.rng = rand.New(rand.NewSource(42))
	s.registry = registry.New(registry.WithCapacity(25))
}

func (s *OpenSequenceSuite) randomIBAN() string {
	iban := fmt.Sprintf("es%02d", s.rng.Intn(40))
	if s.rng.Intn(2) == 0 {
		iban = strings.ToUpper(iban)
	}
	return iban
}

func (s *OpenSequenceSuite) assertInvariants() {
	accounts := s.registry.List()
	s.LessOrEqual(len(accounts), s.registry.Capacity())
	s.Equal(len(accounts), s.registry.Count())
	seen := make(map[string]struct{}, len(accounts))
	for _, acc := range accounts {
		_, dup := seen[account.NormalizeIBAN(acc.IBAN())]
		s.False(dup, "duplicate iban %s", acc.IBAN())
		seen[account.NormalizeIBAN(acc.IBAN())] = struct{}{}
	}
}

func (s *OpenSequenceSuite) TestRandomOpenSequence() {
	for i := 0; i < 300; i++ {
		iban := s.randomIBAN()
		acc, err := account.New().
			WithIBAN(iban).
			WithHolder(account.Holder{Name: "Holder"}).
			WithPolicy(account.PersonalCheckingPolicy{}).
			Build()
		s.Require().NoError(err)

		before := s.registry.Count()
		inUse := s.registry.IsIBANInUse(iban)
		err = s.registry.Open(acc)

		switch {
		case before == s.registry.Capacity():
			s.ErrorIs(err, registry.ErrCapacityExceeded)
			s.Equal(before, s.registry.Count())
		case inUse:
			s.ErrorIs(err, registry.ErrDuplicateIBAN)
			s.Equal(before, s.registry.Count())
		default:
			s.NoError(err)
			s.Equal(before+1, s.registry.Count())
			found, ferr := s.registry.FindByIBAN(strings.ToLower(iban))
			s.NoError(ferr)
			s.Same(acc, found)
		}
		s.assertInvariants()
	}
	s.Equal(s.registry.Capacity(), s.registry.Count())
}

func (s *OpenSequenceSuite) TestNeverOpenedIsNotFound() {
	for i := 0; i < 10; i++ {
		_, err := s.registry.FindByIBAN(fmt.Sprintf("XX%02d", i))
		s.True(errors.Is(err, registry.ErrNotFound))
	}
}

func TestOpenSequenceSuite(t *testing.T) {
	suite.Run(t, new(OpenSequenceSuite))
}
