// Package suite runs the fixed case sequence against the chat API.
package suite

import (
	"context"
	"fmt"

	"chat-tester/config"
	"chat-tester/internal/runner"
	"chat-tester/internal/types"
	"chat-tester/log"
	apperrors "chat-tester/pkg/errors"

	"go.uber.org/zap"
)

// Requester performs one case request.
type Requester interface {
	Run(ctx context.Context, req runner.Request) (bool, error)
}

// Store undoes what the cases wrote through the API.
type Store interface {
	DeleteMessagesByText(text string) (int64, error)
	DeleteGroupsByName(name string) (int64, error)
	DeleteMembershipsByGroup(groupID int64) (int64, error)
	DeleteMembershipsByGroupName(name string) (int64, error)
	GroupIDByName(name string) (int64, error)
}

type Options struct {
	Fixtures     config.Fixtures
	Token        string
	InvalidToken string
}

type Suite struct {
	requester Requester
	store     Store
	reporter  *Reporter
	opts      Options

	createdGroupID int64
	pendingMessage bool
	pendingGroup   bool
}

func New(requester Requester, store Store, reporter *Reporter, opts Options) *Suite {
	return &Suite{
		requester: requester,
		store:     store,
		reporter:  reporter,
		opts:      opts,
	}
}

// step is either a numbered case or a database action between cases.
type step struct {
	no      int
	name    string
	request func() runner.Request
	action  func() error
	after   func()
}

// Run executes every step in order. A failed expectation is recorded and
// the run continues; any error aborts the run after a best-effort revert of
// the rows written so far.
func (s *Suite) Run(ctx context.Context) (types.Summary, error) {
	for _, st := range s.steps() {
		if err := ctx.Err(); err != nil {
			s.revertPending()
			return s.reporter.Summary(), apperrors.Wrap(apperrors.CodeCanceled, "run canceled", err)
		}

		if st.action != nil {
			log.GetLogger().Info("TESTER: "+st.name)
			if err := st.action(); err != nil {
				s.revertPending()
				return s.reporter.Summary(), err
			}
			continue
		}

		passed, err := s.requester.Run(ctx, st.request())
		if st.after != nil {
			st.after()
		}
		if err != nil {
			s.revertPending()
			return s.reporter.Summary(), apperrors.WrapWithDetail(apperrors.GetCode(err), fmt.Sprintf("case %d aborted", st.no), st.name, err)
		}
		s.reporter.Record(st.no, st.name, passed)
	}
	return s.reporter.PrintSummary(), nil
}

func (s *Suite) revertMessage() error {
	if _, err := s.store.DeleteMessagesByText(s.opts.Fixtures.SentMessage); err != nil {
		return err
	}
	s.pendingMessage = false
	return nil
}

func (s *Suite) lookupCreatedGroup() error {
	id, err := s.store.GroupIDByName(s.opts.Fixtures.CreatedGroupName)
	if err != nil {
		return err
	}
	s.createdGroupID = id
	log.GetLogger().Info("created group resolved", zap.String("groupname", s.opts.Fixtures.CreatedGroupName), zap.Int64("group_id", id))
	return nil
}

func (s *Suite) revertCreatedGroup() error {
	if s.createdGroupID > 0 {
		if _, err := s.store.DeleteMembershipsByGroup(s.createdGroupID); err != nil {
			return err
		}
	} else if _, err := s.store.DeleteMembershipsByGroupName(s.opts.Fixtures.CreatedGroupName); err != nil {
		return err
	}
	if _, err := s.store.DeleteGroupsByName(s.opts.Fixtures.CreatedGroupName); err != nil {
		return err
	}
	s.pendingGroup = false
	return nil
}

func (s *Suite) revertPending() {
	if s.pendingMessage {
		if err := s.revertMessage(); err != nil {
			log.GetLogger().Warn("revert posted message failed", zap.Error(err))
		}
	}
	if s.pendingGroup {
		if err := s.revertCreatedGroup(); err != nil {
			log.GetLogger().Warn("revert created group failed", zap.Error(err))
		}
	}
}
