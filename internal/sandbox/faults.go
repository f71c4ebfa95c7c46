package sandbox

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xbe-inc/xbe-integration/internal/handlers"
	srvErrors "github.com/xbe-inc/xbe-integration/pkg/errors"
)

// Fault fails the first Count requests whose path starts with Path.
type Fault struct {
	Method string
	Path   string
	Count  int
	Status int
}

type faultInjector struct {
	mu     sync.Mutex
	faults []Fault
	hits   []int
}

func newFaultInjector(faults []Fault) *faultInjector {
	f := &faultInjector{faults: faults, hits: make([]int, len(faults))}
	for i := range f.faults {
		if f.faults[i].Status == 0 {
			f.faults[i].Status = http.StatusServiceUnavailable
		}
	}
	return f
}

func (f *faultInjector) take(method, path string) (Fault, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, fault := range f.faults {
		if fault.Method != "" && fault.Method != method {
			continue
		}
		if !strings.HasPrefix(path, fault.Path) || f.hits[i] >= fault.Count {
			continue
		}
		f.hits[i]++
		return fault, true
	}
	return Fault{}, false
}

func (f *faultInjector) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		fault, ok := f.take(c.Request.Method, c.Request.URL.Path)
		if !ok {
			c.Next()
			return
		}
		zap.S().Named("sandbox").Debugw("injecting fault", "method", c.Request.Method, "path", c.Request.URL.Path, "status", fault.Status)
		handlers.AbortWithError(c, srvErrors.NewAPIError(fault.Status, http.StatusText(fault.Status), c.Request.Method, c.Request.URL.Path))
	}
}
