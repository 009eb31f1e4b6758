// Package integrations provides HTTP clients for the external services the
// editor talks to.
//
// # Overview
//
// The editing engine itself performs no network I/O. Two collaborators sit
// at its boundary:
//
//   - image sources given as http(s) URLs, fetched with [Client.GetBytes]
//   - the background-removal service, in the [bgremove] subpackage
//
// # Shared Infrastructure
//
// [Client] applies default headers, enforces a timeout and a response size
// limit, reports every request to the registered [observability.HTTPHooks],
// and maps failures onto [ErrNotFound], [ErrNetwork] and [ErrTimeout].
// Requests are never retried; a failed call is reported to the caller, who
// may re-invoke it.
//
//	client := integrations.NewClient(map[string]string{"User-Agent": "cropkit"}, 30*time.Second)
//	data, err := client.GetBytes(ctx, "https://example.com/photo.jpg")
//
// [bgremove]: github.com/matzehuels/cropkit/pkg/integrations/bgremove
// [observability.HTTPHooks]: github.com/matzehuels/cropkit/pkg/observability.HTTPHooks
package integrations
