package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/classhub/gateway/internal/mq"
	"github.com/classhub/gateway/internal/services"
	"github.com/classhub/gateway/internal/storage"
	"github.com/classhub/gateway/internal/store"
	"github.com/classhub/gateway/types"
	"github.com/go-chi/chi/v5"
)

const maxUploadMemory = 32 << 20

// FileHandler provides upload, listing, retrieval, and deletion of
// files tied to users and course classes.
type FileHandler struct {
	files   *services.FileService
	objects *storage.Storage
	events  *mq.Events
	logger  *slog.Logger
}

// NewFileHandler constructs a FileHandler with the provided dependencies.
func NewFileHandler(files *services.FileService, objects *storage.Storage, events *mq.Events, logger *slog.Logger) *FileHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileHandler{
		files:   files,
		objects: objects,
		events:  events,
		logger:  logger,
	}
}

// FilesRouter registers file routes on the given router. Every route
// sits behind the authentication gate.
func FilesRouter(r chi.Router, files *services.FileService, objects *storage.Storage, gate *Gate, events *mq.Events, logger *slog.Logger) {
	handler := NewFileHandler(files, objects, events, logger)

	r.Use(gate.Middleware)
	r.Post("/upload", handler.Upload)
	r.Get("/", handler.List)
	r.Get("/class/{classId}", handler.ListByClass)
	r.Get("/{userId}/{filename}", handler.Get)
	r.Delete("/{filename}", handler.Delete)
}

// Upload stores a multipart file and records its metadata. The object
// is written before the userId/classId fields are validated, so a 400
// response can leave an orphaned object behind; callers own cleanup.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded, user not authenticated, or classId not provided")
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded, user not authenticated, or classId not provided")
		return
	}
	defer part.Close()

	key := storage.NewKey(header.Filename)
	contentType := header.Header.Get("Content-Type")
	if err := h.objects.Put(r.Context(), key, part, header.Size, contentType); err != nil {
		writeError(w, http.StatusInternalServerError, "Error uploading file")
		return
	}

	userID, err := strconv.Atoi(r.FormValue("userId"))
	if err != nil || userID < 1 {
		writeError(w, http.StatusBadRequest, "No file uploaded, user not authenticated, or classId not provided")
		return
	}
	classID, err := strconv.Atoi(r.FormValue("classId"))
	if err != nil || classID < 1 {
		writeError(w, http.StatusBadRequest, "No file uploaded, user not authenticated, or classId not provided")
		return
	}

	file, err := h.files.Create(r.Context(), types.File{
		Filename:      header.Filename,
		Path:          key,
		Mimetype:      contentType,
		Size:          header.Size,
		UserID:        userID,
		CourseClassID: classID,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error uploading file")
		return
	}

	h.events.Publish(r.Context(), mq.EventFileUploaded, file)
	writeJSON(w, http.StatusCreated, file)
}

// List returns every file record with its owner embedded. An empty
// table answers 404, matching the gateway's established list semantics.
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.files.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching files")
		return
	}
	if len(files) == 0 {
		writeError(w, http.StatusNotFound, "No files found")
		return
	}
	writeJSON(w, http.StatusOK, files)
}

// ListByClass returns the files associated with a course class.
func (h *FileHandler) ListByClass(w http.ResponseWriter, r *http.Request) {
	classID, err := strconv.Atoi(chi.URLParam(r, "classId"))
	if err != nil || classID < 1 {
		writeError(w, http.StatusBadRequest, "Invalid class id")
		return
	}

	files, err := h.files.ListByClass(r.Context(), classID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching files")
		return
	}
	if len(files) == 0 {
		writeError(w, http.StatusNotFound, "No files found")
		return
	}
	writeJSON(w, http.StatusOK, files)
}

// Get streams a stored file back to the client.
func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userId"))
	if err != nil || userID < 1 {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	filename := chi.URLParam(r, "filename")

	file, err := h.files.GetByOwnerAndName(r.Context(), userID, filename)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error retrieving file")
		return
	}

	object, err := h.objects.Get(r.Context(), file.Path)
	if err != nil {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	defer object.Close()

	if file.Mimetype != "" {
		w.Header().Set("Content-Type", file.Mimetype)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, object); err != nil {
		h.logger.Error("stream file", "path", file.Path, "error", err)
	}
}

// Delete removes one of the requester's own files by original filename.
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Access token required")
		return
	}
	filename := chi.URLParam(r, "filename")

	file, err := h.files.DeleteOwned(r.Context(), identity.ID, filename)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error deleting file")
		return
	}

	// The record is authoritative; losing the object cleanup is logged,
	// not surfaced.
	if err := h.objects.Delete(r.Context(), file.Path); err != nil {
		h.logger.Error("delete object", "path", file.Path, "error", err)
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "File deleted successfully"})
}
