// Package http implements the HTTP handlers of the claim sheet service.
//
// Handlers stay thin: they parse multipart uploads, hand them to the services
// layer and render the result. Every failure goes through
// errors.ErrorHandler so clients always receive RFC 7807 problem details.
//
// # Routes
//
//	GET  /                      upload form
//	POST /api/template/preview  JSON preview of Pipeline A
//	POST /api/template/export   Pipeline A workbook download
//	POST /api/report/preview    JSON preview of Pipeline B
//	POST /api/report/export     Pipeline B workbook download
//	GET  /api/health[/live|/ready], /api/version
//
// Export responses carry the data-quality warnings as JSON in the
// X-Claimsheet-Warnings header because the body is the workbook.
package http
