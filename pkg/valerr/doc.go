// Package valerr is the error model of the coercion engine.
//
// A validation step fails in one of three ways:
//
//   - LineErrors: one or more recoverable failures, each with an ErrorType,
//     a Location, the offending input and template context. Containers
//     collect them from every item and prepend their own key or index.
//   - ErrOmit: the item asks to be dropped from its container.
//   - *InternalError: a fatal failure that aborts validation at once.
//
// Use Lines, IsOmit and IsInternal to tell them apart:
//
//	var c valerr.Collector
//	for i, item := range items {
//	    _, err := child.Validate(item, st)
//	    if err = c.AddAt(err, valerr.Index(i)); err != nil {
//	        if valerr.IsOmit(err) {
//	            continue
//	        }
//	        return nil, err
//	    }
//	}
//	return out, c.Err()
//
// ValidationError is the caller-facing report. Details returns the line
// errors in document order with dotted-path helpers and translation keys.
package valerr
