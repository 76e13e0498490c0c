package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"
)

type recordingServer struct {
	Unimplemented
	params *GetPlanParams
}

func (s *recordingServer) GetPlan(w http.ResponseWriter, r *http.Request, params GetPlanParams) {
	s.params = &params
	w.WriteHeader(http.StatusOK)
}

func TestRoutesMatchOpenAPIDocument(t *testing.T) {
	data, err := os.ReadFile("openapi.yaml")
	if err != nil {
		t.Fatalf("Failed to read openapi.yaml: %v", err)
	}

	var doc struct {
		Paths map[string]map[string]interface{} `yaml:"paths"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Failed to parse openapi.yaml: %v", err)
	}

	var documented []string
	for path, ops := range doc.Paths {
		for method := range ops {
			documented = append(documented, strings.ToUpper(method)+" "+path)
		}
	}

	r := chi.NewRouter()
	HandlerFromMux(&Unimplemented{}, r)

	var routed []string
	err = chi.Walk(r, func(method, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		routed = append(routed, method+" "+route)
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to walk routes: %v", err)
	}

	sort.Strings(documented)
	sort.Strings(routed)
	if strings.Join(documented, ",") != strings.Join(routed, ",") {
		t.Errorf("Routes %v do not match documented operations %v", routed, documented)
	}
}

func TestGetPlanParameterBinding(t *testing.T) {
	testCases := []struct {
		name           string
		query          string
		expectedStatus int
		expectedError  interface{}
		check          func(t *testing.T, p *GetPlanParams)
	}{
		{
			name:           "All parameters",
			query:          "width=800&height=300&tile_size=256&variant=cube",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, p *GetPlanParams) {
				if p.Width != 800 || p.Height != 300 {
					t.Errorf("Expected 800x300, got %dx%d", p.Width, p.Height)
				}
				if p.TileSize == nil || *p.TileSize != 256 {
					t.Errorf("Expected tile size 256, got %v", p.TileSize)
				}
				if p.Variant == nil || *p.Variant != Cube {
					t.Errorf("Expected cube variant, got %v", p.Variant)
				}
			},
		},
		{
			name:           "Optional parameters absent",
			query:          "width=10&height=20",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, p *GetPlanParams) {
				if p.TileSize != nil || p.Variant != nil {
					t.Errorf("Expected nil optional parameters, got %v %v", p.TileSize, p.Variant)
				}
			},
		},
		{
			name:           "Missing height",
			query:          "width=10",
			expectedStatus: http.StatusBadRequest,
			expectedError:  &RequiredParamError{},
		},
		{
			name:           "Malformed tile size",
			query:          "width=10&height=20&tile_size=big",
			expectedStatus: http.StatusBadRequest,
			expectedError:  &InvalidParamFormatError{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			si := &recordingServer{}
			var handlerErr error
			h := HandlerWithOptions(si, ChiServerOptions{
				ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
					handlerErr = err
					http.Error(w, err.Error(), http.StatusBadRequest)
				},
			})

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plan?"+tc.query, nil))

			if rec.Code != tc.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tc.expectedStatus, rec.Code)
			}

			switch tc.expectedError.(type) {
			case *RequiredParamError:
				var target *RequiredParamError
				if !errors.As(handlerErr, &target) {
					t.Errorf("Expected RequiredParamError, got %v", handlerErr)
				}
			case *InvalidParamFormatError:
				var target *InvalidParamFormatError
				if !errors.As(handlerErr, &target) || target.ParamName != "tile_size" {
					t.Errorf("Expected InvalidParamFormatError for tile_size, got %v", handlerErr)
				}
			}

			if tc.check != nil {
				if si.params == nil {
					t.Fatal("Handler was not called")
				}
				tc.check(t, si.params)
			}
		})
	}
}

func TestUnimplementedOperations(t *testing.T) {
	h := Handler(Unimplemented{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/pyramids", strings.NewReader("{}")))
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("Expected status 501, got %d", rec.Code)
	}
}
