package mock

import (
	"encoding/json"
	"fmt"
)

// MakeRequestPausedPayload builds a Fetch.requestPaused event as chrome sends it
func MakeRequestPausedPayload(requestID, url, resourceType string) []byte {
	u, _ := json.Marshal(url)
	return []byte(fmt.Sprintf(`{"method":"Fetch.requestPaused","params":{"requestId":%q,"request":{"url":%s,"method":"GET","headers":{}},"frameId":"F1","resourceType":%q}}`, requestID, string(u), resourceType))
}
