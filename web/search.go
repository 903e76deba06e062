package web

import (
	"context"
	"errors"
	"github.com/explore-flights/farefinder/business/aggregator"
	"github.com/explore-flights/farefinder/common"
	"github.com/explore-flights/farefinder/web/model"
	"github.com/labstack/echo/v4"
	"net/http"
	"time"
)

const searchMaxAge = time.Minute

type searcher interface {
	Search(ctx context.Context, params common.SearchParams) (aggregator.Result, error)
}

type SearchHandler struct {
	s searcher
}

func NewSearchHandler(s searcher) *SearchHandler {
	return &SearchHandler{s: s}
}

func (h *SearchHandler) Search(c echo.Context) error {
	r, err := h.search(c)
	if err != nil {
		return err
	}

	addExpirationHeaders(c, time.Now(), searchMaxAge)
	return c.JSON(http.StatusOK, model.SearchResultFromAggregated(r))
}

func (h *SearchHandler) search(c echo.Context) (aggregator.Result, error) {
	params, err := parseSearchParams(c)
	if err != nil {
		return aggregator.Result{}, searchError(err)
	}

	r, err := h.s.Search(c.Request().Context(), params)
	if err != nil {
		return aggregator.Result{}, searchError(err)
	}

	return r, nil
}

func searchError(err error) error {
	if errors.Is(err, common.ErrInvalidSearchParams) {
		return NewHTTPError(http.StatusBadRequest, WithCause(err), WithUnmaskedCause())
	}

	return NewHTTPError(http.StatusInternalServerError, WithCause(err))
}
