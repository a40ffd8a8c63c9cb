package messaging

import (
	"strings"
	"testing"
)

func TestSubjectConstants_Defined(t *testing.T) {
	subjects := map[string]string{
		"SubjectActivityEventLogged": SubjectActivityEventLogged,
		"SubjectInsightsRefreshed":   SubjectInsightsRefreshed,
	}

	for name, value := range subjects {
		if value == "" {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestSubjectConstants_FollowNamingConvention(t *testing.T) {
	// Subjects follow the pattern: {domain}.{resource}.{action}
	subjects := []string{
		SubjectActivityEventLogged,
		SubjectInsightsRefreshed,
	}

	for _, subject := range subjects {
		parts := strings.Split(subject, ".")
		if len(parts) != 3 {
			t.Errorf("subject %q does not follow {domain}.{resource}.{action} pattern", subject)
		}
	}
}
