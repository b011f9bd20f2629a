package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"lintang/searoute/pkg/datastructure"
	"lintang/searoute/pkg/server"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

type NavigationService interface {
	SeaRoute(ctx context.Context, srcLat, srcLon, dstLat, dstLon float64, smooth bool) (datastructure.RouteResult, error)
}

type NavigationHandler struct {
	svc          NavigationService
	promeMetrics *metrics
	validate     *validator.Validate
	trans        ut.Translator
}

func NavigatorRouter(r *chi.Mux, svc NavigationService, m *metrics) {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	validate := validator.New()
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	handler := &NavigationHandler{svc: svc, promeMetrics: m, validate: validate, trans: trans}

	r.Group(func(r chi.Router) {
		r.Route("/api/navigations", func(r chi.Router) {
			r.Post("/sea-route", handler.seaRoute)
			r.Get("/hello", handler.Hello)
		})
	})
}

// SeaRouteRequest request body of a sea route query. Smooth defaults to true.
type SeaRouteRequest struct {
	SrcLat *float64 `json:"src_lat" validate:"required,lte=90,gte=-90"`
	SrcLon *float64 `json:"src_lon" validate:"required,lte=180,gte=-180"`
	DstLat *float64 `json:"dst_lat" validate:"required,lte=90,gte=-90"`
	DstLon *float64 `json:"dst_lon" validate:"required,lte=180,gte=-180"`
	Smooth *bool    `json:"smooth"`
}

func (s *SeaRouteRequest) Bind(r *http.Request) error {
	if s.SrcLat == nil || s.SrcLon == nil || s.DstLat == nil || s.DstLon == nil {
		return errors.New("invalid request")
	}
	return nil
}

func (s *SeaRouteRequest) smooth() bool {
	return s.Smooth == nil || *s.Smooth
}

// SeaRouteResponse route plus both paths as google encoded polylines.
type SeaRouteResponse struct {
	datastructure.RouteResult
	PathRaw    string `json:"path_raw"`
	PathSmooth string `json:"path_smooth"`
}

func NewSeaRouteResponse(route datastructure.RouteResult) *SeaRouteResponse {
	return &SeaRouteResponse{
		RouteResult: route,
		PathRaw:     datastructure.RenderPath(route.RawPath),
		PathSmooth:  datastructure.RenderPath(route.RefinedPath),
	}
}

func (h *NavigationHandler) seaRoute(w http.ResponseWriter, r *http.Request) {
	data := &SeaRouteRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	if err := h.validate.Struct(*data); err != nil {
		vv := translateError(err, h.trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	route, err := h.svc.SeaRoute(r.Context(), *data.SrcLat, *data.SrcLon, *data.DstLat, *data.DstLon, data.smooth())
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	canalName := "none"
	if len(route.CanalJumps) > 0 {
		canalName = route.CanalJumps[0].Canal
	}
	h.promeMetrics.RouteQueryCount.WithLabelValues(canalName).Inc()
	h.promeMetrics.searchExpansions.Observe(float64(route.Stats.Expansions))

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewSeaRouteResponse(route))
}

func (h *NavigationHandler) Hello(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, "Hello, World!")
}

type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

// ErrInternalServerErrorRend keeps the cause in Err for logs and shows clients a generic message.
func ErrInternalServerErrorRend(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error.",
		ErrorText:      server.MessageInternalServerError,
	}
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrChi(err error) render.Renderer {
	statusText := ""
	switch getStatusCode(err) {
	case http.StatusNotFound:
		statusText = "Resource not found."
	case http.StatusInternalServerError:
		return ErrInternalServerErrorRend(err)
	case http.StatusConflict:
		statusText = "Resource conflict."
	case http.StatusBadRequest:
		statusText = "Bad request."
	case http.StatusUnprocessableEntity:
		statusText = "Route search gave up."
	default:
		statusText = "Error."
	}

	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: getStatusCode(err),
		StatusText:     statusText,
		ErrorText:      err.Error(),
	}
}

func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var ierr *server.Error
	if !errors.As(err, &ierr) {
		return http.StatusInternalServerError
	} else {
		switch ierr.Code() {
		case server.ErrInternalServerError:
			return http.StatusInternalServerError
		case server.ErrNotFound:
			return http.StatusNotFound
		case server.ErrConflict:
			return http.StatusConflict
		case server.ErrBadParamInput:
			return http.StatusBadRequest
		case server.ErrUnprocessable:
			return http.StatusUnprocessableEntity
		default:
			return http.StatusInternalServerError
		}
	}

}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		translatedErr := fmt.Errorf("%s", e.Translate(trans))
		errs = append(errs, translatedErr)
	}
	return errs
}
