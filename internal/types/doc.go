/*
Package types defines the data shared by the executor, the application
state and the history store.

# Request

Request carries the method and URL being composed. Method is a closed
enum; Next cycles GET, POST, PUT, PATCH, DELETE, HEAD, OPTIONS and wraps
back to GET.

# Response

Response is the captured result of one execution:
  - status code and reason text
  - headers and cookies, in the order the server sent them
  - body text and its detected format
  - elapsed time, size and completion timestamp

A failed execution still yields a Response with Error set and
BodyFormat equal to FormatError, so the renderer always has something to
show.

Responses are treated as values: nothing modifies one after the executor
builds it.
*/
package types
