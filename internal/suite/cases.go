package suite

import (
	"fmt"
	"net/http"

	"chat-tester/internal/runner"
)

func (s *Suite) steps() []step {
	fx := s.opts.Fixtures
	user := runner.BearerHeader(s.opts.Token)
	foreign := fmt.Sprintf("/groups/%d", fx.ForeignGroupID)
	member := fmt.Sprintf("/groups/%d", fx.MemberGroupID)
	created := func() string { return fmt.Sprintf("/groups/%d", s.createdGroupID) }

	return []step{
		check(1, "basic groups get", runner.Request{
			Endpoint: "/groups", Verb: runner.VerbGet, ExpectedStatus: http.StatusOK,
		}),
		check(2, "invalid user token", runner.Request{
			Endpoint: foreign + "/messages", Verb: runner.VerbGet, ExpectedStatus: http.StatusUnauthorized,
			Headers: runner.BearerHeader(s.opts.InvalidToken),
		}),
		check(3, "valid token, user not a member", runner.Request{
			Endpoint: foreign + "/messages", Verb: runner.VerbGet, ExpectedStatus: http.StatusForbidden,
			Headers: user,
		}),
		check(4, "valid group get", runner.Request{
			Endpoint: member + "/messages", Verb: runner.VerbGet, ExpectedStatus: http.StatusOK,
			Headers: user,
		}),
		{
			no:   5,
			name: "send a message to group",
			request: fixed(runner.Request{
				Endpoint: member + "/messages", Verb: runner.VerbPost, ExpectedStatus: http.StatusCreated,
				Headers: user, Form: map[string]string{"message": fx.SentMessage},
			}),
			after: func() { s.pendingMessage = true },
		},
		check(6, "retrieve the same group and compare", runner.Request{
			Endpoint: member + "/messages", Verb: runner.VerbGet, ExpectedStatus: http.StatusOK,
			Headers: user, Compare: &runner.Comparison{Field: "message", Value: fx.SentMessage},
		}),
		{name: "revert posted message", action: s.revertMessage},
		check(7, "join a group user is already a member of", runner.Request{
			Endpoint: member + "/join", Verb: runner.VerbPost, ExpectedStatus: http.StatusForbidden,
			Headers: user,
		}),
		check(8, "join a group user is not a member of", runner.Request{
			Endpoint: foreign + "/join", Verb: runner.VerbPost, ExpectedStatus: http.StatusCreated,
			Headers: user,
		}),
		check(9, "get messages of the group just joined", runner.Request{
			Endpoint: foreign + "/messages", Verb: runner.VerbGet, ExpectedStatus: http.StatusOK,
			Headers: user, Compare: &runner.Comparison{Field: "message", Value: fx.JoinedGroupMessage},
		}),
		{
			no:   10,
			name: "create a new group",
			request: fixed(runner.Request{
				Endpoint: "/groups/create", Verb: runner.VerbPost, ExpectedStatus: http.StatusCreated,
				Headers: user, Form: map[string]string{"groupname": fx.CreatedGroupName},
			}),
			after: func() { s.pendingGroup = true },
		},
		check(11, "created group is listed", runner.Request{
			Endpoint: "/groups", Verb: runner.VerbGet, ExpectedStatus: http.StatusOK,
			Compare: &runner.Comparison{Field: "groupname", Value: fx.CreatedGroupName},
		}),
		{name: "look up created group id", action: s.lookupCreatedGroup},
		{
			no:   12,
			name: "creator is a member of the created group",
			request: func() runner.Request {
				return runner.Request{
					Endpoint: created() + "/messages", Verb: runner.VerbGet, ExpectedStatus: http.StatusOK,
					Headers: user,
				}
			},
		},
		check(13, "leave a group", runner.Request{
			Endpoint: foreign + "/leave", Verb: runner.VerbDelete, ExpectedStatus: http.StatusNoContent,
			Headers: user,
		}),
		{
			no:   14,
			name: "leave the created group",
			request: func() runner.Request {
				return runner.Request{
					Endpoint: created() + "/leave", Verb: runner.VerbDelete, ExpectedStatus: http.StatusNoContent,
					Headers: user,
				}
			},
		},
		check(15, "left group is forbidden again", runner.Request{
			Endpoint: foreign + "/messages", Verb: runner.VerbGet, ExpectedStatus: http.StatusForbidden,
			Headers: user,
		}),
		{name: "revert created group", action: s.revertCreatedGroup},
	}
}

func check(no int, name string, req runner.Request) step {
	return step{no: no, name: name, request: fixed(req)}
}

func fixed(req runner.Request) func() runner.Request {
	return func() runner.Request { return req }
}
