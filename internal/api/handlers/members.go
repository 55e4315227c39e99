package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"alumni-api/internal/apperr"
	"alumni-api/internal/attachment"
	"alumni-api/internal/constants"
	"alumni-api/internal/models"

	"github.com/gin-gonic/gin"
)

const photoField = "photo"

var memberFields = map[string]bool{
	"name":       true,
	"batch":      true,
	"linkedinId": true,
	"field":      true,
}

// memberForm is a parsed member multipart request. Values holds only the
// keys the client actually sent.
type memberForm struct {
	values map[string]string
	upload *attachment.Upload
}

func (f *memberForm) get(key string) *string {
	v, ok := f.values[key]
	if !ok {
		return nil
	}
	return &v
}

// CreateMember godoc
// @Summary Create a member
// @Description Create a member record with an optional photo
// @Tags members
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Full name"
// @Param batch formData string true "Graduation batch"
// @Param linkedinId formData string true "LinkedIn identifier"
// @Param field formData string true "Field of study"
// @Param photo formData file false "Profile photo (jpeg, png, webp or gif, max 5 MiB)"
// @Success 201 {object} api.MemberResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 500 {object} api.ErrorResponse
// @Router /create [post]
func (h *Handler) CreateMember(c *gin.Context) {
	form, err := parseMemberForm(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer form.upload.Close()

	in := models.NewMember{
		Name:       form.values["name"],
		Batch:      form.values["batch"],
		LinkedInID: form.values["linkedinId"],
		Field:      form.values["field"],
	}

	member, err := h.records.CreateMember(c.Request.Context(), in, form.upload)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    member,
	})
}

// EditMember godoc
// @Summary Edit a member
// @Description Update the fields that are sent; a new photo replaces the old one
// @Tags members
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param name formData string false "Full name"
// @Param batch formData string false "Graduation batch"
// @Param linkedinId formData string false "LinkedIn identifier"
// @Param field formData string false "Field of study"
// @Param photo formData file false "Replacement photo"
// @Success 200 {object} api.MemberResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 500 {object} api.ErrorResponse
// @Router /edituser/{id} [put]
func (h *Handler) EditMember(c *gin.Context) {
	form, err := parseMemberForm(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer form.upload.Close()

	patch := models.MemberPatch{
		Name:       form.get("name"),
		Batch:      form.get("batch"),
		LinkedInID: form.get("linkedinId"),
		Field:      form.get("field"),
	}

	member, err := h.records.EditMember(c.Request.Context(), c.Param("id"), patch, form.upload)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    member,
	})
}

// DeleteMember godoc
// @Summary Delete a member
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} api.MessageResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 500 {object} api.ErrorResponse
// @Router /deleteuser/{id} [delete]
func (h *Handler) DeleteMember(c *gin.Context) {
	if err := h.records.DeleteMember(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// ListMembers godoc
// @Summary List all members
// @Description Newest first; an empty directory returns an empty array
// @Tags members
// @Produce json
// @Success 200 {array} models.Member
// @Failure 500 {object} api.ErrorResponse
// @Router /getalluser [get]
func (h *Handler) ListMembers(c *gin.Context) {
	members, err := h.records.ListMembers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// ListMembersByBatch godoc
// @Summary List members of a batch
// @Tags members
// @Produce json
// @Param batch path string true "Batch"
// @Success 200 {array} models.Member
// @Failure 404 {object} api.ErrorResponse
// @Failure 500 {object} api.ErrorResponse
// @Router /batch/{batch} [get]
func (h *Handler) ListMembersByBatch(c *gin.Context) {
	members, err := h.records.ListMembersByBatch(c.Request.Context(), c.Param("batch"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// parseMemberForm reads a multipart member request. Unknown keys, repeated
// keys and more than one photo are rejected.
func parseMemberForm(c *gin.Context) (*memberForm, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, constants.MaxRequestBytes)

	mf, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperr.Validation(fmt.Sprintf("request exceeds %d bytes", constants.MaxRequestBytes))
		}
		return nil, apperr.Wrap(err, apperr.KindValidation, "request must be multipart/form-data")
	}

	form := &memberForm{values: make(map[string]string, len(mf.Value))}
	for key, vals := range mf.Value {
		if key == photoField {
			return nil, apperr.Validation("photo must be sent as a file")
		}
		if !memberFields[key] {
			return nil, apperr.Validation("unknown field: " + key)
		}
		if len(vals) != 1 {
			return nil, apperr.Validation(key + " must be sent once")
		}
		form.values[key] = vals[0]
	}

	for key := range mf.File {
		if key != photoField {
			return nil, apperr.Validation("unknown file field: " + key)
		}
	}

	form.upload, err = photoUpload(mf.File[photoField])
	if err != nil {
		return nil, err
	}
	return form, nil
}

func photoUpload(files []*multipart.FileHeader) (*attachment.Upload, error) {
	switch len(files) {
	case 0:
		return nil, nil
	case 1:
		return attachment.FromFileHeader(files[0])
	default:
		return nil, apperr.Validation("only one photo may be uploaded")
	}
}
