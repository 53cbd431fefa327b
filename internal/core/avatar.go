package core

import "math/rand/v2"

// avatarPool holds the decorative profile pictures assigned at join time.
var avatarPool = [...]string{
	"https://api.dicebear.com/7.x/avataaars/svg?seed=1",
	"https://api.dicebear.com/7.x/avataaars/svg?seed=2",
	"https://api.dicebear.com/7.x/avataaars/svg?seed=3",
	"https://api.dicebear.com/7.x/avataaars/svg?seed=4",
	"https://api.dicebear.com/7.x/avataaars/svg?seed=5",
}

// PickAvatar returns one avatar reference chosen uniformly at random.
func PickAvatar() string {
	return avatarPool[rand.IntN(len(avatarPool))]
}

// AvatarAt returns the pool entry at index i modulo the pool size.
func AvatarAt(i int) string {
	return avatarPool[i%len(avatarPool)]
}

// AvatarPoolSize reports the number of avatars available.
func AvatarPoolSize() int {
	return len(avatarPool)
}
