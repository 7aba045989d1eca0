package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/service"
)

// MemberResponse represents the response data for a project member
type MemberResponse struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
}

// MemberHandler handles project membership HTTP requests
type MemberHandler struct {
	members service.MemberService
	users   service.UserService
	logger  *slog.Logger
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(
	members service.MemberService,
	users service.UserService,
	logger *slog.Logger,
) *MemberHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for MemberHandler")
	}

	return &MemberHandler{
		members: members,
		users:   users,
		logger:  logger.With(slog.String("component", "member_handler")),
	}
}

// AddMember handles POST /projects/{id}/members requests
func (h *MemberHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	user, ok := requireUser(w, r, h.users)
	if !ok {
		return
	}

	projectID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req AddMemberRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	member, err := h.members.AddMember(r.Context(), projectID, req.UserID, domain.MemberRole(req.Role), user)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add member")
		return
	}

	log.Debug("project member added",
		slog.String("project_id", projectID.String()),
		slog.String("member_user_id", req.UserID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, memberToResponse(member))
}

// ListMembers handles GET /projects/{id}/members requests
func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.users)
	if !ok {
		return
	}

	projectID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	members, err := h.members.ListMembers(r.Context(), projectID, user)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list members")
		return
	}

	responses := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		responses = append(responses, memberToResponse(m))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// RemoveMember handles DELETE /projects/{id}/members/{userID} requests
func (h *MemberHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.users)
	if !ok {
		return
	}

	projectID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	memberUserID, err := getPathUUID(r, "userID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.members.RemoveMember(r.Context(), projectID, memberUserID, user); err != nil {
		HandleAPIError(w, r, err, "Failed to remove member")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// memberToResponse converts a domain.ProjectMember to a MemberResponse
func memberToResponse(member *domain.ProjectMember) MemberResponse {
	return MemberResponse{
		ID:        member.ID.String(),
		ProjectID: member.ProjectID.String(),
		UserID:    member.UserID.String(),
		Role:      string(member.Role),
		JoinedAt:  member.JoinedAt,
	}
}
