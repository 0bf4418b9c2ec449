// Package handlers contains the HTTP handlers of the usecasegen API.
//
// Handlers report failures as classified errors through the shared
// HTTPErrorAdapter and write JSON bodies from the responses package.
package handlers
