package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/atikulmunna/gastroguard/internal/aggregator"
	"github.com/atikulmunna/gastroguard/internal/export"
	"github.com/atikulmunna/gastroguard/internal/filter"
	"github.com/atikulmunna/gastroguard/internal/hub"
	"github.com/atikulmunna/gastroguard/internal/model"
	"github.com/atikulmunna/gastroguard/internal/simulator"
)

const maxBodyBytes = 64 << 10

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"sessions":     s.sessions.Len(),
		"subscribers":  s.hub.Subscribers(),
		"dropped_feed": s.hub.Dropped(),
	})
}

// view is a request's filtered slice of its session store.
type view struct {
	now    time.Time
	field  model.TimeField
	result filter.Result
}

// sessionView loads the session's entries and applies the period, start,
// end and field query parameters. It writes the error response itself and
// reports false on failure.
func (s *Server) sessionView(c *gin.Context) (view, bool) {
	now := s.now()
	field := s.field
	if f := strings.TrimSpace(c.Query("field")); f != "" {
		field = model.ParseTimeField(f)
	}

	p, err := filter.ParsePeriod(c.Query("period"), c.Query("start"), c.Query("end"), now.Location())
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return view{}, false
	}

	entries, err := s.sessions.Get(sessionID(c)).All(c.Request.Context())
	if err != nil {
		s.log.Error("load session entries", zap.Error(err))
		fail(c, http.StatusInternalServerError, "failed to load entries")
		return view{}, false
	}
	return view{now: now, field: field, result: filter.Apply(entries, p, now, field)}, true
}

func (s *Server) handleListEntries(c *gin.Context) {
	v, good := s.sessionView(c)
	if !good {
		return
	}
	ok(c, v.result.Entries, map[string]any{"label": v.result.Label, "count": v.result.Len()})
}

func (s *Server) handleAppendEntry(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		fail(c, http.StatusBadRequest, "failed to read body")
		return
	}
	entry, err := s.parser.Parse(raw, s.now())
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	id := sessionID(c)
	if err := s.sessions.Get(id).Append(c.Request.Context(), entry); err != nil {
		s.log.Error("append entry", zap.Error(err))
		fail(c, http.StatusInternalServerError, "failed to store entry")
		return
	}
	if err := s.hub.Publish(c.Request.Context(), hub.Event{Session: id, Entry: entry}); err != nil {
		s.log.Warn("publish entry", zap.String("session", id), zap.Error(err))
	}
	c.JSON(http.StatusCreated, apiResponse{Code: 0, Message: "created", Data: entry})
}

func (s *Server) handleFoods(c *gin.Context) {
	v, good := s.sessionView(c)
	if !good {
		return
	}
	ok(c, aggregator.ByMeal(v.result.Entries), map[string]any{"label": v.result.Label})
}

func (s *Server) handleRemedies(c *gin.Context) {
	v, good := s.sessionView(c)
	if !good {
		return
	}
	ok(c, aggregator.ByRemedy(v.result.Entries), map[string]any{"label": v.result.Label})
}

func (s *Server) handlePeakHours(c *gin.Context) {
	v, good := s.sessionView(c)
	if !good {
		return
	}
	n, err := intQuery(c, "n", aggregator.DefaultPeakHours)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	ok(c, aggregator.PeakHours(v.result.Entries, v.field, n), map[string]any{"label": v.result.Label})
}

func (s *Server) handleOverview(c *gin.Context) {
	v, good := s.sessionView(c)
	if !good {
		return
	}
	ok(c, aggregator.Summarize(v.result.Entries, v.now), map[string]any{"label": v.result.Label})
}

func (s *Server) handleEffectiveness(c *gin.Context) {
	v, good := s.sessionView(c)
	if !good {
		return
	}
	ok(c, aggregator.RateRemedy(v.result.Entries, c.Param("name"), v.now), nil)
}

func (s *Server) handleSimulate(c *gin.Context) {
	stress, err := intQuery(c, "stress", -1)
	if err != nil || stress < 0 {
		fail(c, http.StatusBadRequest, "stress must be a non-negative integer")
		return
	}

	var hours float64
	if h := strings.TrimSpace(c.Query("hours")); h != "" {
		hours, err = strconv.ParseFloat(h, 64)
		if err != nil {
			fail(c, http.StatusBadRequest, "hours must be a number")
			return
		}
	} else {
		entries, err := s.sessions.Get(sessionID(c)).All(c.Request.Context())
		if err != nil {
			fail(c, http.StatusInternalServerError, "failed to load entries")
			return
		}
		hours = simulator.HoursSinceLastMeal(entries, s.now())
	}

	res, err := s.sim.Run(stress, hours)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, simulator.ErrNegativeInput) {
			status = http.StatusBadRequest
		}
		fail(c, status, err.Error())
		return
	}
	ok(c, res, nil)
}

func (s *Server) handleExport(c *gin.Context) {
	v, good := s.sessionView(c)
	if !good {
		return
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, v.result.Entries); err != nil {
		s.log.Error("export csv", zap.Error(err))
		fail(c, http.StatusInternalServerError, "export failed")
		return
	}
	name := export.FileName(v.result.Label, v.now)
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// intQuery parses an optional integer query parameter.
func intQuery(c *gin.Context, key string, def int) (int, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return n, nil
}
