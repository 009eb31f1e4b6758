// Package bgremove is a client for an HTTP background-removal service.
//
// # Protocol
//
// The client POSTs a JSON body carrying the source image as base64:
//
//	{"image": "<base64 PNG>"}
//
// and expects a JSON response with the processed image:
//
//	{"processedImageBase64": "<base64>", "contentType": "image/png"}
//
// Every request carries a fresh X-Request-ID and, when configured, a bearer
// token. Non-2xx responses, bodies that are not JSON, and responses without
// an image payload are failures. Failed calls are never retried.
//
// # Caching
//
// With [WithCache], successful responses are stored under a key derived from
// the endpoint and the SHA-256 of the submitted payload, so resubmitting the
// same image skips the network call.
//
//	client, err := bgremove.New("https://api.example.com/remove-background",
//	    bgremove.WithAPIKey(os.Getenv("CROPKIT_API_KEY")),
//	    bgremove.WithCache(fileCache, 7*24*time.Hour),
//	)
//	processed, contentType, err := client.RemoveBackground(ctx, imageBase64)
package bgremove
