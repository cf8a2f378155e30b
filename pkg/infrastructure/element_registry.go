package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	"resume-page/internal/dom"
	"resume-page/internal/gate"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ElementRegistry observes custom element registration inside a chromedp
// tab. The ctx passed to WhenDefined must carry the tab.
type ElementRegistry struct {
	log *zap.Logger
}

func NewElementRegistry(log *zap.Logger) *ElementRegistry {
	if log == nil {
		log = zap.NewNop()
	}
	return &ElementRegistry{log: log}
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

// WhenDefined resolves with customElements.whenDefined. If the evaluation
// fails (tab closed, ctx done) the signal is never closed.
func (r *ElementRegistry) WhenDefined(ctx context.Context, name string) gate.Signal {
	ch := make(chan struct{})
	go func() {
		var defined bool
		expr := fmt.Sprintf(`customElements.whenDefined(%s).then(() => true)`, jsString(name))
		if err := chromedp.Run(ctx, chromedp.Evaluate(expr, &defined, awaitPromise)); err != nil {
			r.log.Debug("whenDefined did not resolve", zap.String("element", name), zap.Error(err))
			return
		}
		close(ch)
	}()
	return ch
}

// LiveDocument is the DOM of a chromedp tab.
type LiveDocument struct{}

func (LiveDocument) RemoveBodyClass(ctx context.Context, class string) error {
	expr := fmt.Sprintf(`(() => {
		const body = document.querySelector("body");
		if (!body) return false;
		body.classList.remove(%s);
		return true;
	})()`, jsString(class))

	var ok bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(expr, &ok)); err != nil {
		return fmt.Errorf("remove body class: %w", err)
	}
	if !ok {
		return dom.ErrNoBody
	}
	return nil
}
