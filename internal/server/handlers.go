package server

import (
	"net/http"
	"net/url"

	"royale-rivals/internal/battle"
	"royale-rivals/internal/constants"
	"royale-rivals/internal/domain"
	"royale-rivals/internal/middleware"
	"royale-rivals/internal/service"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
)

// callerID is only used behind RequireUser.
func callerID(r *http.Request) int64 {
	id, _ := middleware.UserID(r.Context())
	return id
}

// tagParam reads a player tag from the path, accepting both "ABC" and "%23ABC".
func tagParam(r *http.Request) (string, error) {
	raw, err := url.PathUnescape(chi.URLParam(r, "tag"))
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "invalid player tag"), domain.ErrInvalidInput)
	}
	tag := battle.CanonicalTag(raw)
	if tag == "" {
		return "", errors.Wrap(domain.ErrInvalidInput, "empty player tag")
	}
	return tag, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Scheduler: s.sync.State().String()})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in service.CreateUserInput
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := s.users.CreateUser(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetUser(r.Context(), callerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

func (s *Server) handleLinkTag(w http.ResponseWriter, r *http.Request) {
	var req linkTagRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := s.users.LinkTag(r.Context(), callerID(r), req.PlayerTag)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

func (s *Server) handleListFriends(w http.ResponseWriter, r *http.Request) {
	userID, err := intParam(chi.URLParam(r, "userID"), "user id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	friends, err := s.users.ListFriends(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTOs(friends))
}

func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	var req addFriendRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.users.AddFriend(r.Context(), callerID(r), req.FriendID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, friendResponse{Created: created})
}

func (s *Server) handleDiscoverPlayer(w http.ResponseWriter, r *http.Request) {
	tag, err := tagParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := s.users.DiscoverPlayer(r.Context(), tag)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

func (s *Server) handlePlayerMatches(w http.ResponseWriter, r *http.Request) {
	tag, err := tagParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", constants.PlayerMatchesLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	matches, err := s.stats.GetPlayerMatches(r.Context(), tag, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMatchDTOs(matches))
}

func (s *Server) handleForceSync(w http.ResponseWriter, r *http.Request) {
	tag, err := tagParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.sync.ForceSync(r.Context(), tag)
	if err != nil {
		if errors.Is(err, domain.ErrSyncCooldown) {
			w.Header().Set("Retry-After", retryAfterSeconds(res.RetryAfter))
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{Tag: tag, Synced: res.Synced, Inserted: res.Inserted})
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", constants.DefaultFeedLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	matches, err := s.stats.GetFeed(r.Context(), callerID(r), skip, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMatchDTOs(matches))
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := s.stats.GetLeaderboard(r.Context(), callerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handleH2H(w http.ResponseWriter, r *http.Request) {
	friendID, err := intParam(chi.URLParam(r, "friendID"), "friend id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	h2h, err := s.stats.GetH2H(r.Context(), callerID(r), friendID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h2h)
}

func (s *Server) handleCreateInvite(w http.ResponseWriter, r *http.Request) {
	var req createInviteRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	invite, err := s.invites.Create(r.Context(), callerID(r), req.TargetTag)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInviteDTO(invite))
}

func (s *Server) handleGetInvite(w http.ResponseWriter, r *http.Request) {
	invite, err := s.invites.Get(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toInviteDTO(invite))
}

func (s *Server) handleRedeemInvite(w http.ResponseWriter, r *http.Request) {
	res, err := s.invites.Redeem(r.Context(), chi.URLParam(r, "token"), callerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, redeemResponse{Invite: toInviteDTO(res.Invite), FriendAdded: res.FriendAdded})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var in service.FeedbackInput
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	f, err := s.feedback.Submit(r.Context(), callerID(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, feedbackDTO{ID: f.ID, Type: f.Type, Title: f.Title, CreatedAt: f.CreatedAt})
}
