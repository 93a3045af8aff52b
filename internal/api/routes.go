package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang/glog"
	"github.com/zulandar/pressyard/internal/gate"
	"github.com/zulandar/pressyard/internal/matrix"
	"github.com/zulandar/pressyard/internal/relation"
	"github.com/zulandar/pressyard/internal/station"
)

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, s *server) {
	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	api.GET("/stations/:station/elements/:element/relations", s.handleRelations)
	api.GET("/production-orders/:id/stations/:station/elements/:element/matrix", s.handleMatrix)
	api.GET("/production-orders/:id/stations/:station/elements/:element/action-states", s.handleActionStates)
	api.GET("/production-orders/:id/classify", s.handleClassify)
	api.GET("/production-orders/:id/elements/:element/workshop-width", s.handleWorkshopWidth)
	api.GET("/orders/:id/production-state", s.handleProductionState)
}

// writeError renders err as JSON with the request id.
func writeError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		glog.Errorf("api: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error":     err.Error(),
		"requestId": c.GetString(requestIDKey),
	})
}

func paramID(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid %s %q", name, c.Param(name))
	}
	return uint(v), nil
}

func paramStation(c *gin.Context) (station.Station, error) {
	return station.Parse(c.Param("station"))
}

func paramElement(c *gin.Context) (station.Element, error) {
	return station.ParseElement(c.Param("element"))
}

func (s *server) allowed(from, to station.Station) mapset.Set[uint] {
	if s.allowList == nil {
		return nil
	}
	actions, ok := s.allowList(from, to)
	if !ok {
		return nil
	}
	return mapset.NewThreadUnsafeSet(actions...)
}

func (s *server) handleHealth(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		writeError(c, http.StatusServiceUnavailable, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *server) handleRelations(c *gin.Context) {
	st, err := paramStation(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	el, err := paramElement(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	rels, err := s.resolver.Resolve(s.db, st, el)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	if rels == nil {
		rels = []relation.Relation{}
	}
	c.JSON(http.StatusOK, gin.H{"station": st, "element": el, "relations": rels})
}

// matrixQuery reads the order, station and element of a matrix route.
func (s *server) matrixQuery(c *gin.Context) (matrix.Query, bool) {
	id, err := paramID(c, "id")
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return matrix.Query{}, false
	}
	st, err := paramStation(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return matrix.Query{}, false
	}
	el, err := paramElement(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return matrix.Query{}, false
	}
	return matrix.Query{ProdOrderID: id, Station: st, Element: el, Lang: s.langOf(c)}, true
}

func (s *server) handleMatrix(c *gin.Context) {
	q, ok := s.matrixQuery(c)
	if !ok {
		return
	}
	m, err := matrix.Build(s.db, s.resolver, q)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// handleActionStates files the matrix under active or stand-by by
// classifying ?from= against the route's station.
func (s *server) handleActionStates(c *gin.Context) {
	q, ok := s.matrixQuery(c)
	if !ok {
		return
	}
	from, err := station.Parse(c.Query("from"))
	if err != nil {
		writeError(c, http.StatusBadRequest, fmt.Errorf("from: %w", err))
		return
	}
	res, err := s.classify(gate.Query{ProdOrderID: q.ProdOrderID, From: from, To: q.Station, Allowed: s.allowed(from, q.Station)})
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	out, err := matrix.BuildActionStates(s.db, s.resolver, q, res)
	switch {
	case errors.Is(err, matrix.ErrNoStates), errors.Is(err, matrix.ErrNoActions):
		writeError(c, http.StatusNotFound, err)
		return
	case err != nil:
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) classify(q gate.Query) (gate.Result, error) {
	cls := gate.Classifier{Resolver: s.resolver, Observe: s.metrics.ObserveClassification}
	return cls.Classify(s.db, q)
}

func (s *server) handleClassify(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	from, err := station.Parse(c.Query("from"))
	if err != nil {
		writeError(c, http.StatusBadRequest, fmt.Errorf("from: %w", err))
		return
	}
	to, err := station.Parse(c.Query("to"))
	if err != nil {
		writeError(c, http.StatusBadRequest, fmt.Errorf("to: %w", err))
		return
	}
	override := false
	if v := c.Query("override"); v != "" {
		if override, err = strconv.ParseBool(v); err != nil {
			writeError(c, http.StatusBadRequest, fmt.Errorf("override: %w", err))
			return
		}
	}
	res, err := s.classify(gate.Query{ProdOrderID: id, From: from, To: to, Override: override, Allowed: s.allowed(from, to)})
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *server) handleProductionState(c *gin.Context) {
	if s.wf == nil {
		writeError(c, http.StatusNotImplemented, errors.New("workflow not configured"))
		return
	}
	id, err := paramID(c, "id")
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	state, err := s.wf.ProductionState(id)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderId": id, "state": int(state), "name": state.String()})
}

func (s *server) handleWorkshopWidth(c *gin.Context) {
	if s.wf == nil {
		writeError(c, http.StatusNotImplemented, errors.New("workflow not configured"))
		return
	}
	id, err := paramID(c, "id")
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	el, err := paramElement(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	w, err := s.wf.WorkshopWidth(id, el)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, w)
}
