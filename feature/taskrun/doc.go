// Package taskrun implements the task-run submission API, including file
// uploads embedded in submissions.
//
// A submission arrives either as a JSON body or as a multipart form whose
// request_json field carries the JSON payload. Files travel two ways:
//
//   - Inline: an info field named per the *__upload_url convention whose
//     value is {"filename": ..., "content": ...}.
//   - Multipart: a file part whose field name follows the same convention.
//     Parts with any other name are rejected with 400.
//
// Uploaded content is stored under <project>/<task>/<user>/<filename> and
// the info value is replaced by the access URL. On a private instance, any
// submission that carried a file additionally has its entire info payload
// uploaded as one answer blob and replaced by that blob's URL.
//
// # HTTP Endpoints
//
//   - POST /api/taskrun : submit a task run (api_key query parameter).
package taskrun
