package rest

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mmynk/splitpay/internal/models"
)

type groupRequest struct {
	Name     string   `json:"name" validate:"required"`
	Currency string   `json:"currency" validate:"omitempty,len=3"`
	Members  []string `json:"members" validate:"required,min=1,dive,required"`
}

type addMembersRequest struct {
	Members []string `json:"members" validate:"required,min=1,dive,required"`
}

type groupResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Currency  string   `json:"currency"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"created_at"`
}

func toGroupResponse(g *models.Group) groupResponse {
	return groupResponse{
		ID:        g.ID,
		Name:      g.Name,
		Currency:  g.Currency,
		Members:   g.Members,
		CreatedAt: g.CreatedAt,
	}
}

func (a *App) createGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if !a.decodeAndValidate(w, r, &req) {
		return
	}

	group := &models.Group{
		Name:     req.Name,
		Currency: req.Currency,
		Members:  req.Members,
	}
	if err := a.store.CreateGroup(r.Context(), group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to create group")
		return
	}

	slog.Info("Group created", "group_id", group.ID, "members_count", len(group.Members))
	respondWithJSON(w, http.StatusCreated, toGroupResponse(group))
}

func (a *App) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := a.store.ListGroups(r.Context())
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to list groups")
		return
	}

	resp := make([]groupResponse, len(groups))
	for i, g := range groups {
		resp[i] = toGroupResponse(g)
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (a *App) getGroup(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]

	group, err := a.store.GetGroup(r.Context(), groupID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "group not found")
		return
	}
	respondWithJSON(w, http.StatusOK, toGroupResponse(group))
}

func (a *App) updateGroup(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]

	var req groupRequest
	if !a.decodeAndValidate(w, r, &req) {
		return
	}

	group := &models.Group{
		ID:       groupID,
		Name:     req.Name,
		Currency: req.Currency,
		Members:  req.Members,
	}
	if group.Currency == "" {
		group.Currency = "USD"
	}
	if err := a.store.UpdateGroup(r.Context(), group); err != nil {
		slog.Error("UpdateGroup failed", "group_id", groupID, "error", err)
		respondWithError(w, http.StatusNotFound, "group not found")
		return
	}

	updated, err := a.store.GetGroup(r.Context(), groupID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load updated group")
		return
	}
	respondWithJSON(w, http.StatusOK, toGroupResponse(updated))
}

func (a *App) deleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]

	if err := a.store.DeleteGroup(r.Context(), groupID); err != nil {
		respondWithError(w, http.StatusNotFound, "group not found")
		return
	}
	slog.Info("Group deleted", "group_id", groupID)
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (a *App) addMembers(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]

	var req addMembersRequest
	if !a.decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := a.store.GetGroup(r.Context(), groupID); err != nil {
		respondWithError(w, http.StatusNotFound, "group not found")
		return
	}
	if err := a.store.AddGroupMembers(r.Context(), groupID, req.Members); err != nil {
		slog.Error("AddGroupMembers failed", "group_id", groupID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to add members")
		return
	}

	group, err := a.store.GetGroup(r.Context(), groupID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load group")
		return
	}
	slog.Info("Members added", "group_id", groupID, "new_members", req.Members)
	respondWithJSON(w, http.StatusOK, toGroupResponse(group))
}

func (a *App) removeMember(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	groupID, name := vars["id"], vars["name"]

	group, err := a.store.GetGroup(r.Context(), groupID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "group not found")
		return
	}

	// A group always keeps at least one member.
	if len(group.Members) <= 1 {
		respondWithError(w, http.StatusConflict, "cannot remove the last member")
		return
	}

	if err := a.store.RemoveGroupMember(r.Context(), groupID, name); err != nil {
		respondWithError(w, http.StatusNotFound, "member not found")
		return
	}
	slog.Info("Member removed", "group_id", groupID, "member", name)
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
