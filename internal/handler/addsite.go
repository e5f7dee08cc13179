package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"seopanel-go/pkg/backend"
	"seopanel-go/pkg/wizard"
)

// Abandoned wizard sessions are swept so the session map stays bounded
// on a long-running server.
const (
	wizardSessionTTL  = time.Hour
	maxWizardSessions = 1000
)

// wizardSession is one stored add-site run, stamped on every access.
type wizardSession struct {
	w       *wizard.Wizard
	touched time.Time
}

// wizardView is the add-site page view-model: the current step, the
// form as entered so far, and any field errors from the last action.
type wizardView struct {
	Page         string                    `json:"page"`
	Gate         gateResult                `json:"gate"`
	SessionID    string                    `json:"sessionId"`
	Step         wizard.Step               `json:"step"`
	TotalSteps   int                       `json:"totalSteps"`
	Form         wizard.Form               `json:"form"`
	Verification wizard.VerificationStatus `json:"verification"`
	FieldErrors  map[string]string         `json:"fieldErrors,omitempty"`
	Message      string                    `json:"message,omitempty"`
	Redirect     string                    `json:"redirect,omitempty"`
}

// AddSite opens the wizard. A sessionId query resumes an existing run;
// otherwise a fresh session starts at step one.
func (h *Handler) AddSite(c *fiber.Ctx) error {
	view := wizardView{Page: "add-site", TotalSteps: wizard.TotalSteps}

	view.Gate = h.gate(c)
	if !view.Gate.Authenticated {
		return c.Status(fiber.StatusUnauthorized).JSON(view)
	}

	id := c.Query("sessionId")
	w := h.lookupWizard(id)
	if w == nil {
		id = uuid.NewString()
		w = wizard.New(h.verifier)
		h.storeWizard(id, w)
	}

	view.SessionID = id
	view.Step = w.Step()
	view.Form = w.Form()
	view.Verification = w.Verification()
	return c.JSON(view)
}

// wizardRequest is the body of every wizard action.
type wizardRequest struct {
	SessionID string      `json:"sessionId"`
	Form      wizard.Form `json:"form"`
}

// WizardAction applies one wizard transition: next, back, verify, or
// submit. The posted form replaces the session's input first, so edits
// on the current step are never lost.
func (h *Handler) WizardAction(c *fiber.Ctx) error {
	view := wizardView{Page: "add-site", TotalSteps: wizard.TotalSteps}

	view.Gate = h.gate(c)
	if !view.Gate.Authenticated {
		return c.Status(fiber.StatusUnauthorized).JSON(view)
	}

	var req wizardRequest
	if err := c.BodyParser(&req); err != nil {
		view.Message = "The wizard request is not valid JSON."
		return c.Status(fiber.StatusBadRequest).JSON(view)
	}

	w := h.lookupWizard(req.SessionID)
	if w == nil {
		view.Message = "The wizard session has expired. Start over."
		return c.Status(fiber.StatusGone).JSON(view)
	}
	w.Update(req.Form)

	switch c.Params("action") {
	case "next":
		view.FieldErrors = w.Next()

	case "back":
		w.Back()

	case "verify":
		if w.Verify(c.UserContext()) == wizard.VerificationFailed {
			view.Message = "Site ownership could not be verified."
		}

	case "submit":
		payload, err := w.Submit()
		if err != nil {
			view.Message = err.Error()
			break
		}
		if err := h.client.AddSite(c.UserContext(), sessionCookie(c), payload); err != nil {
			h.log.WithError(err).Error("Site creation failed")
			view.Message = backend.UserMessage(err, "Site")
			break
		}
		h.dropWizard(req.SessionID)
		view.Step = w.Step()
		view.Form = w.Form()
		view.Verification = w.Verification()
		view.Redirect = "/dashboard"
		return c.JSON(view)

	default:
		view.Message = "Unknown wizard action."
		return c.Status(fiber.StatusBadRequest).JSON(view)
	}

	view.SessionID = req.SessionID
	view.Step = w.Step()
	view.Form = w.Form()
	view.Verification = w.Verification()
	return c.JSON(view)
}

func (h *Handler) lookupWizard(id string) *wizard.Wizard {
	if id == "" {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	session, ok := h.wizards[id]
	if !ok {
		return nil
	}
	if time.Since(session.touched) > wizardSessionTTL {
		delete(h.wizards, id)
		return nil
	}
	session.touched = time.Now()
	return session.w
}

func (h *Handler) storeWizard(id string, w *wizard.Wizard) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sweepWizardsLocked()
	h.wizards[id] = &wizardSession{w: w, touched: time.Now()}
}

func (h *Handler) dropWizard(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.wizards, id)
}

// sweepWizardsLocked removes expired sessions and, if the map is still
// at capacity, evicts the stalest one. Caller holds h.mu.
func (h *Handler) sweepWizardsLocked() {
	for id, session := range h.wizards {
		if time.Since(session.touched) > wizardSessionTTL {
			delete(h.wizards, id)
		}
	}
	for len(h.wizards) >= maxWizardSessions {
		oldestID := ""
		var oldest time.Time
		for id, session := range h.wizards {
			if oldestID == "" || session.touched.Before(oldest) {
				oldestID = id
				oldest = session.touched
			}
		}
		delete(h.wizards, oldestID)
	}
}
