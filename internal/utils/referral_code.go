package utils

import "crypto/rand"

const referralCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// ReferralCodeLength is the length of generated referral codes.
const ReferralCodeLength = 8

// GenerateReferralCode returns a random referral code. Uniqueness is enforced
// by the caller against the users table.
func GenerateReferralCode() (string, error) {
	buf := make([]byte, ReferralCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = referralCodeAlphabet[int(b)%len(referralCodeAlphabet)]
	}
	return string(buf), nil
}
