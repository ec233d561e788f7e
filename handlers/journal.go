// journal.go - Journal entry CRUD, always scoped to the authenticated caller

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-journal-backend/middleware"
	"go-journal-backend/models"
	"go-journal-backend/mqtt"
)

type JournalInput struct {
	Title    string      `json:"title" binding:"required"`
	Content  string      `json:"content" binding:"required"`
	Date     string      `json:"date" binding:"required"`
	Category string      `json:"category"`
	Tags     models.Tags `json:"tags"`
}

func (h *Handler) addEntry(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		h.fail(c, err, "")
		return
	}

	var input JournalInput
	if err := bindJSON(c, &input, "Title, content, and date are required"); err != nil {
		h.fail(c, err, "")
		return
	}

	entry, err := h.journal.Create(c.Request.Context(), userID, models.JournalEntry{
		Title:    input.Title,
		Content:  input.Content,
		Date:     input.Date,
		Category: input.Category,
		Tags:     input.Tags,
	})
	if err != nil {
		h.fail(c, err, "Error saving entry")
		return
	}

	h.publish(c, mqtt.KindJournal, mqtt.ActionCreated, userID, entry.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "Entry saved successfully", "entry": entry})
}

// listEntries returns the caller's entries, newest first. Repeated ?tag=
// parameters narrow the list to entries carrying every tag.
func (h *Handler) listEntries(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		h.fail(c, err, "")
		return
	}

	entries, err := h.journal.List(c.Request.Context(), userID, models.Tags(c.QueryArray("tag")))
	if err != nil {
		h.fail(c, err, "Error fetching entries")
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) getEntry(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		h.fail(c, err, "")
		return
	}

	entry, err := h.journal.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.fail(c, err, "Error fetching entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) updateEntry(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		h.fail(c, err, "")
		return
	}

	var patch models.JournalPatch
	if err := bindJSON(c, &patch, ""); err != nil {
		h.fail(c, err, "")
		return
	}

	entry, err := h.journal.Update(c.Request.Context(), userID, c.Param("id"), patch)
	if err != nil {
		h.fail(c, err, "Error updating entry")
		return
	}

	h.publish(c, mqtt.KindJournal, mqtt.ActionUpdated, userID, entry.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Entry updated successfully", "entry": entry})
}

func (h *Handler) deleteEntry(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		h.fail(c, err, "")
		return
	}

	id := c.Param("id")
	if err := h.journal.Delete(c.Request.Context(), userID, id); err != nil {
		h.fail(c, err, "Error deleting entry")
		return
	}

	h.publish(c, mqtt.KindJournal, mqtt.ActionDeleted, userID, id)
	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted successfully"})
}
