package mangler

// PageFunc is invoked after each page finishes mangling. page is
// 1-indexed and total is the document page count. Used by callers to
// drive progress bars; errors from the callback are not collected.
type PageFunc func(page, total int)

// ObjectFunc is invoked after each non-page object (image, JavaScript
// action, metadata stream) is rewritten during the object sweep.
type ObjectFunc func(objNr int, kind string)
