/*
Package executor sends the composed request and captures the response.

# Overview

Execute is the synchronous core: it measures elapsed time around a
Sender call and converts the raw exchange into a types.Response:
  - status code and reason text
  - headers in the order the Sender reported them
  - cookies parsed from Set-Cookie
  - body decoded to UTF-8 text
  - size (declared Content-Length, else the measured body length)

Start wraps Execute in a Task so the terminal loop never blocks. The
loop calls Task.Poll on every tick; the worker goroutine writes its
Outcome into a channel of capacity one and exits.

# Senders

HTTPSender (http.go) is the net/http implementation with a request
timeout and optional TLS/mTLS. Tests substitute a SenderFunc.

# Failures

A failed execution still produces a Response so the user sees what
happened. Two kinds exist:
  - KindNetwork: no response arrived (DNS, refused, TLS, timeout)
  - KindDecode: a response arrived but its body is not text

The diagnostic body is an actionable message from categorizeError.
Non-2xx statuses are successful executions.

# Charsets

Bodies declaring a non-UTF-8 charset are transcoded through
golang.org/x/text. Textual bodies that are invalid UTF-8 without a
usable charset are retried against common legacy encodings before
being reported as KindDecode.
*/
package executor
