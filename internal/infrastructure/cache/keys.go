package cache

import "strconv"

func DashboardKey(userID int64) string {
	return "dashboard:" + strconv.FormatInt(userID, 10)
}

func UploadLockKey(userID int64) string {
	return "upload:lock:" + strconv.FormatInt(userID, 10)
}

func SessionKey(id string) string {
	return "session:" + id
}

func PendingUploadKey(anonID string) string {
	return "pending:" + anonID
}
