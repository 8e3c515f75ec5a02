package devserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/atency/internal/middleware"
	"github.com/hitoshi/atency/internal/model"
)

// MsgMalformedBody はリクエストボディがJSONとして解釈できない場合のメッセージ。
const MsgMalformedBody = "Malformed request body"

// maxBodyBytes はリクエストボディの上限。
const maxBodyBytes = 1 << 20

// envelope は成功レスポンスの共通フォーマット。
type envelope struct {
	Timestamp   time.Time `json:"timestamp"`
	Code        int       `json:"code"`
	Status      string    `json:"status"`
	ReferenceID string    `json:"referenceId"`
	Result      any       `json:"result"`
}

// Handler は開発用バックエンドのHTTPハンドラー群。
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler は新しいHandlerを生成する。
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register はPOST /api/auth/register を処理する。
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.service.Register(req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResult(w, r, http.StatusCreated, resp)
}

// Login はPOST /api/auth/login を処理する。
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.service.Login(req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResult(w, r, http.StatusOK, resp)
}

// CheckIn はPOST /api/attendance/check-in を処理する。
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.withPrincipal(w, r, func(p *middleware.Principal) {
		rec, err := h.service.CheckIn(p.Username)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeResult(w, r, http.StatusCreated, rec)
	})
}

// CheckOut はPOST /api/attendance/check-out を処理する。
func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.withPrincipal(w, r, func(p *middleware.Principal) {
		rec, err := h.service.CheckOut(p.Username)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeResult(w, r, http.StatusOK, rec)
	})
}

// MyRecords はGET /api/attendance/my-records を処理する。
func (h *Handler) MyRecords(w http.ResponseWriter, r *http.Request) {
	h.withPrincipal(w, r, func(p *middleware.Principal) {
		records, err := h.service.MyRecords(p.Username)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeResult(w, r, http.StatusOK, records)
	})
}

// MySummary はGET /api/attendance/my-summary を処理する。
func (h *Handler) MySummary(w http.ResponseWriter, r *http.Request) {
	h.withPrincipal(w, r, func(p *middleware.Principal) {
		summary, err := h.service.MySummary(p.Username)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeResult(w, r, http.StatusOK, summary)
	})
}

// AllAttendance はGET /api/admin/attendance/all を処理する。
func (h *Handler) AllAttendance(w http.ResponseWriter, r *http.Request) {
	writeResult(w, r, http.StatusOK, h.service.AllRecords())
}

// AttendanceByUser はGET /api/admin/attendance/{userId} を処理する。
func (h *Handler) AttendanceByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		middleware.WriteError(w, r, http.StatusBadRequest, "Invalid user id", nil)
		return
	}
	records, err := h.service.RecordsByUser(userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResult(w, r, http.StatusOK, records)
}

// Health はGET /health を処理する。
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// NotFound は未定義ルートを処理する。
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	middleware.WriteError(w, r, http.StatusNotFound, "No endpoint "+r.Method+" "+r.URL.Path, nil)
}

// MethodNotAllowed は許可されていないメソッドを処理する。
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	middleware.WriteError(w, r, http.StatusMethodNotAllowed, "Request method '"+r.Method+"' is not supported", nil)
}

func (h *Handler) withPrincipal(w http.ResponseWriter, r *http.Request, fn func(*middleware.Principal)) {
	p, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, r, http.StatusUnauthorized, middleware.MsgAuthenticationFailed, nil)
		return
	}
	fn(p)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		middleware.WriteError(w, r, http.StatusBadRequest, MsgMalformedBody, nil)
		return false
	}
	return true
}

// writeError は業務エラーを統一エラーフォーマットで返す。それ以外は500として記録する。
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		middleware.WriteError(w, r, svcErr.Status, svcErr.Msg, svcErr.Fields)
		return
	}
	h.logger.Error("unhandled error",
		slog.String("reference_id", middleware.ReferenceIDFromContext(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	middleware.WriteInternalServerError(w, r)
}

// writeResult は成功レスポンスを共通フォーマットで書き込む。
func writeResult(w http.ResponseWriter, r *http.Request, status int, result any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{
		Timestamp:   time.Now().UTC(),
		Code:        status,
		Status:      http.StatusText(status),
		ReferenceID: middleware.ReferenceIDFromContext(r.Context()),
		Result:      result,
	})
}
