// Package process manages external helper processes (browser, OCR engine)
// so that cancellation also reaps their children.
package process
