package analyzer

import (
	"slices"
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"antifraud/internal/models"
)

// MaxFeaturesPerPattern limits how many captures each key feature pattern contributes.
const MaxFeaturesPerPattern = 3

// scamTypes is in priority order: the earliest label found wins.
var scamTypes = []string{
	"刷单", "杀猪盘", "虚假投资", "冒充公检法", "贷款诈骗",
	"客服诈骗", "中奖诈骗", "虚假征信", "网络博彩", "游戏充值",
	"裸聊敲诈", "兼职诈骗", "电商退款", "冒充客服",
}

var techKeywords = []string{
	"预警", "劝阻", "拦截", "封堵", "止付", "冻结",
	"研判", "溯源", "侦查", "抓捕", "反制",
}

var (
	// A locative word, 2-6 characters, then an administrative unit.
	locativeRule = NewPatternRule("locative",
		`(?:在|位于|地点|地址)([^\s\p{Z}，。]{2,6}?)(?:市|区|县|省|镇|乡|村)`)

	// 2-6 Han characters directly before an administrative or police unit.
	authorityRule = NewPatternRule("authority",
		`([\x{4e00}-\x{9fa5}]{2,6}?)(?:省|市|区|县|镇|派出所|公安局)`)

	phraseFeatureRule = NewPatternRule("phrase",
		`([^\s\p{Z}]{4,30}?)(?:诈骗|陷阱|套路|手段|方式)`)

	labeledFeatureRule = NewPatternRule("labeled",
		`特点[：:](.{4,50}?)(?:[\n\r]|。)`)
)

// ScamTypes returns the scam type vocabulary in priority order.
func ScamTypes() []string {
	return slices.Clone(scamTypes)
}

// TechKeywords returns the technique vocabulary in output order.
func TechKeywords() []string {
	return slices.Clone(techKeywords)
}

// Analyzer applies the rule tables to summary text. It is safe for concurrent use.
type Analyzer struct {
	techMatcher   *ahocorasick.Matcher
	scamRules     []Rule
	locationRules []Rule
	featureRules  []PatternRule
	techTerms     []string
	// The matcher keeps per-call state internally.
	mu sync.Mutex
}

// New builds an analyzer with the built-in rule tables.
func New() *Analyzer {
	scamRules := make([]Rule, 0, len(scamTypes))
	for _, label := range scamTypes {
		scamRules = append(scamRules, ContainsRule(label))
	}

	return &Analyzer{
		techMatcher:   ahocorasick.NewStringMatcher(techKeywords),
		scamRules:     scamRules,
		locationRules: []Rule{locativeRule, authorityRule},
		featureRules:  []PatternRule{phraseFeatureRule, labeledFeatureRule},
		techTerms:     slices.Clone(techKeywords),
	}
}

var (
	defaultOnce     sync.Once
	defaultAnalyzer *Analyzer
)

// Default returns a shared analyzer.
func Default() *Analyzer {
	defaultOnce.Do(func() {
		defaultAnalyzer = New()
	})

	return defaultAnalyzer
}

// Analyze runs every extractor over text. Absent matches leave the field empty.
func (a *Analyzer) Analyze(text string) models.ArticleAnalysis {
	return models.ArticleAnalysis{
		ScamType:      a.ScamType(text),
		Location:      a.Location(text),
		KeyFeatures:   a.KeyFeatures(text),
		AntiFraudTech: a.Techniques(text),
	}
}

// ScamType returns the highest-priority scam label contained in text.
func (a *Analyzer) ScamType(text string) string {
	return FirstMatch(a.scamRules, text)
}

// Location returns the first place name found by the first location rule that matches.
func (a *Analyzer) Location(text string) string {
	return FirstMatch(a.locationRules, text)
}

// KeyFeatures collects up to MaxFeaturesPerPattern captures from each feature pattern.
// Duplicates are kept.
func (a *Analyzer) KeyFeatures(text string) []string {
	features := []string{}

	for _, rule := range a.featureRules {
		features = append(features, rule.All(text, MaxFeaturesPerPattern)...)
	}

	return features
}

// Techniques returns every technique keyword contained in text, once each, in
// vocabulary order.
func (a *Analyzer) Techniques(text string) []string {
	if text == "" {
		return []string{}
	}

	a.mu.Lock()
	hits := a.techMatcher.Match([]byte(text))
	a.mu.Unlock()

	slices.Sort(hits)
	hits = slices.Compact(hits)

	techs := make([]string, 0, len(hits))
	for _, idx := range hits {
		if idx >= 0 && idx < len(a.techTerms) {
			techs = append(techs, a.techTerms[idx])
		}
	}

	return techs
}
