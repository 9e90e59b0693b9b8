package classify

import (
	"fmt"
	"regexp"
)

// Word-boundary classes for pattern compilation. Go's RE2 \b only recognizes
// ASCII word characters, which breaks on Vietnamese letters, so boundaries
// are spelled out as Unicode letter/digit classes instead.
const (
	boundaryStart = `(?:^|[^\p{L}\p{N}_])`
	boundaryEnd   = `(?:$|[^\p{L}\p{N}_])`
)

// words compiles a case-insensitive whole-word alternation.
func words(alts string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + boundaryStart + `(?:` + alts + `)` + boundaryEnd)
}

// Pattern is a single classification rule: a whole-word alternation,
// optionally followed anywhere later in the query by a second one.
type Pattern struct {
	id    string
	first *regexp.Regexp
	then  *regexp.Regexp
}

// Matches reports whether the pattern matches the given (normalized) text.
func (p Pattern) Matches(text string) bool {
	loc := p.first.FindStringIndex(text)
	if loc == nil {
		return false
	}
	if p.then == nil {
		return true
	}
	// The boundary class consumed the separator, so the remainder starts at
	// a clean word boundary and the ^ alternative applies.
	return p.then.MatchString(text[loc[1]:])
}

// ID returns the pattern's identifier, used in classification results.
func (p Pattern) ID() string { return p.id }

func single(alts string) Pattern {
	return Pattern{first: words(alts)}
}

func ordered(firstAlts, thenAlts string) Pattern {
	return Pattern{first: words(firstAlts), then: words(thenAlts)}
}

// Refiner relabels an app_related query to a narrower service sub-intent.
type Refiner struct {
	Intent  Intent
	pattern Pattern
}

// Matches reports whether the refiner applies to the given text.
func (r Refiner) Matches(text string) bool {
	return r.pattern.Matches(text)
}

// RuleSet is the classifier's pattern configuration: the app-related and
// general scoring families plus the sub-intent refiners in priority order.
// It is constructed once and immutable afterwards; changing classification
// behavior is a data change, not a code change.
type RuleSet struct {
	appRelated []Pattern
	general    []Pattern
	refiners   []Refiner
}

// NewRuleSet builds a rule set from pre-built pattern families. The slices
// are copied so callers cannot mutate the set afterwards.
func NewRuleSet(appRelated, general []Pattern, refiners []Refiner) *RuleSet {
	rs := &RuleSet{
		appRelated: make([]Pattern, len(appRelated)),
		general:    make([]Pattern, len(general)),
		refiners:   make([]Refiner, len(refiners)),
	}
	copy(rs.appRelated, appRelated)
	copy(rs.general, general)
	copy(rs.refiners, refiners)

	for i := range rs.appRelated {
		if rs.appRelated[i].id == "" {
			rs.appRelated[i].id = fmt.Sprintf("app_%d", i)
		}
	}
	for i := range rs.general {
		if rs.general[i].id == "" {
			rs.general[i].id = fmt.Sprintf("general_%d", i)
		}
	}
	return rs
}

// AppFamilySize returns the number of app-related patterns.
func (rs *RuleSet) AppFamilySize() int { return len(rs.appRelated) }

// GeneralFamilySize returns the number of general patterns.
func (rs *RuleSet) GeneralFamilySize() int { return len(rs.general) }

// Refine tests the normalized query against the refiner groups in priority
// order and returns the first matching sub-intent, or the input intent when
// none match.
func (rs *RuleSet) Refine(normalized string, intent Intent) Intent {
	for _, r := range rs.refiners {
		if r.Matches(normalized) {
			return r.Intent
		}
	}
	return intent
}

// DefaultRuleSet returns the production pattern configuration, covering the
// repair, home-service, and policy/app topic families against the general
// knowledge family.
func DefaultRuleSet() *RuleSet {
	repairTerms := `repair|fix|sửa|maintenance|bảo trì|service|dịch vụ|price|cost|giá|phí|công suất|hp|split|portable|ceiling-mounted`
	acTerms := `ac|air conditioner|airconditioner|điều hòa|máy lạnh|máy điều hòa|điều hòa không khí`

	appRelated := []Pattern{
		// Repair and maintenance services.
		ordered(acTerms, repairTerms),
		ordered(repairTerms, acTerms),
		ordered(`tv|television|tivi|ti vi|tê vi`, `repair|fix|sửa|maintenance|service|dịch vụ|price|cost|giá|phí`),
		ordered(`car|automobile|vehicle|ô tô|xe hơi|xe oto`, `repair|fix|sửa|maintenance|service|dịch vụ|price|cost|giá|phí`),
		ordered(`electrician|electrical|electric|thợ điện|điện`, `service|work|repair|fix|dịch vụ|sửa|price|cost|giá|phí`),
		ordered(`plumber|plumbing|pipe|thợ ống nước|ống nước|nước`, `service|work|repair|fix|dịch vụ|sửa|price|cost|giá|phí`),
		ordered(`van|transport|delivery|vận chuyển|giao hàng|chuyển đồ`, `service|rental|hire|thuê|dịch vụ|price|cost|giá|phí`),

		// Home services.
		ordered(`clean|cleaning|house cleaning|home cleaning|dọn dẹp|dọn nhà|vệ sinh|tổng vệ sinh`, `service|price|cost|fee|giá|phí|dịch vụ|diện tích|area|m²|phòng|room|phụ thu|additional fee`),
		ordered(`service|price|cost|fee|giá|phí|dịch vụ|diện tích|area|m²|phòng|room|phụ thu|additional fee`, `clean|cleaning|house cleaning|home cleaning|dọn dẹp|dọn nhà|vệ sinh|tổng vệ sinh`),
		ordered(`cook|cooking|chef|personal chef|nấu ăn|dịch vụ nấu ăn|đầu bếp`, `service|price|cost|fee|giá|phí|dịch vụ|book|đặt|số người|people|số món|dishes|phụ thu|additional fee`),
		ordered(`labor|labour|worker|general labor|lao động|công nhân|người làm`, `service|hire|thuê|dịch vụ|price|cost|giá|phí`),
		ordered(`tailor|tailoring|sewing|may|thợ may|may vá`, `service|dịch vụ|price|cost|giá|phí`),

		// Policy and app topics.
		single(`book|booking|schedule|appointment|đặt lịch|đặt hẹn|hẹn giờ`),
		ordered(`how to`, `book|schedule|đặt lịch|đặt hẹn`),
		ordered(`how|cách|như thế nào`, `book|schedule|đặt lịch|đặt hẹn`),
		ordered(`cancel|cancellation|hủy|hủy đơn|hủy lịch`, `booking|schedule|appointment|đặt lịch|đặt hẹn`),
		ordered(`cancel|cancellation|hủy|hủy đơn|hủy lịch`, `policy|fee|charge|chính sách|phí`),
		ordered(`policy|fee|charge|chính sách|phí`, `cancel|cancellation|hủy|hủy đơn|hủy lịch`),
		ordered(`payment|pay|thanh toán|trả tiền`, `method|way|how|cách|như thế nào`),
		single(`cash|tiền mặt|vnpay|hpay|ví điện tử`),
		ordered(`refund|hoàn tiền|hoàn lại|trả lại`, `policy|how|cách|chính sách`),
		ordered(`policy|how|cách|chính sách`, `refund|hoàn tiền|hoàn lại|trả lại`),
		ordered(`weekend|saturday|sunday|cuối tuần|24/7|24h`, `service|available|support|dịch vụ|có không|hỗ trợ`),
		single(`account|login|register|đăng nhập|đăng ký|tài khoản|password|forgot|quên|mật khẩu|delete account|xóa tài khoản`),
		ordered(`app|application|ứng dụng`, `how|use|sử dụng|cách`),
		ordered(`app|application|ứng dụng`, `download|tải về|cài đặt|install`),
		ordered(`app|application|ứng dụng`, `update|cập nhật|version|phiên bản`),
		ordered(`app|application|ứng dụng`, `features|tính năng|functionality|chức năng`),
		ordered(`app|application|ứng dụng`, `privacy|security|bảo mật|chính sách bảo mật`),
	}

	general := []Pattern{
		single(`weather|thời tiết|time|giờ`),
		single(`recipe|công thức|cách nấu`),
		single(`news|tin tức|newspaper`),
		single(`travel|du lịch|vacation|nghỉ mát`),
		single(`food|đồ ăn|ẩm thực|restaurant|nhà hàng`),
		single(`movie|film|phim|music|nhạc`),
		single(`health|sức khỏe|medical|y tế`),
		single(`education|giáo dục|school|trường học`),
		single(`sports|thể thao|football|bóng đá|basketball|bóng rổ`),
		single(`shopping|mua sắm|store|cửa hàng`),
		single(`technology|công nghệ|gadget|thiết bị`),
		single(`fashion|thời trang|clothing|quần áo`),
		single(`finance|tài chính|banking|ngân hàng`),
		single(`real estate|bất động sản|property|tài sản`),
	}

	refiners := []Refiner{
		{Intent: IntentCleaning, pattern: single(`clean|cleaning|dọn dẹp|dọn nhà|vệ sinh`)},
		{Intent: IntentCooking, pattern: single(`cook|cooking|nấu ăn|đầu bếp`)},
		{Intent: IntentRepair, pattern: single(`ac|air conditioner|điều hòa|máy lạnh|tivi|ô tô|thợ điện|thợ ống nước|vận chuyển`)},
		{Intent: IntentPolicy, pattern: single(`cancel|hủy|refund|hoàn tiền|payment|thanh toán`)},
		{Intent: IntentAccount, pattern: single(`account|login|register|đăng nhập|đăng ký|password|mật khẩu|delete account|xóa tài khoản|hủy lịch|cancel job`)},
	}

	return NewRuleSet(appRelated, general, refiners)
}
