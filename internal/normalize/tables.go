package normalize

// Role keywords the extractor emits instead of a concrete name. They map
// onto the placeholder role names below before any other rule runs.
var defaultAliases = map[string]string{
	"primary":     "主角",
	"protagonist": "主角",
	"secondary":   "关键配角",
	"supporting":  "关键配角",
	"antagonist":  "反派",
}

// Tokens that mean "no name at all". Matched case-insensitively on the
// raw input.
var defaultIgnores = map[string]struct{}{
	"hidden":         {},
	"secret":         {},
	"unknown":        {},
	"none":           {},
	"null":           {},
	"goal":           {},
	"goals":          {},
	"id":             {},
	"description":    {},
	"type":           {},
	"item":           {},
	"target":         {},
	"source_chapter": {},
	"potential_use":  {},
}

// Placeholder role names survive the stopword and surname rules.
var placeholderNames = map[string]struct{}{
	"主角":   {},
	"关键配角": {},
	"反派":   {},
}

// Narrative noise that the extractor keeps mistaking for names.
var defaultStopwords = map[string]struct{}{
	"主角":  {},
	"章节":  {},
	"章末":  {},
	"目标":  {},
	"冲突":  {},
	"线索":  {},
	"伏笔":  {},
	"回收":  {},
	"开场":  {},
	"结尾":  {},
	"剧情":  {},
	"故事":  {},
	"黑衣人": {},
	"都市传": {},
	"都市怪": {},
	"都没":  {},
	"后者正": {},
	"胡说八": {},
	"任谁":  {},
	"后者":  {},
	"前者":  {},
	"通风管": {},
	"冷静":  {},
}

var prefixBlocklist = []string{
	"后者", "前者", "任凭", "都没", "胡说", "据说", "听说",
	"如果", "但是", "只是", "这个", "那个",
}

// Connectives that leak into the front of an extracted name and verbs
// that leak onto the end. One rune each, stripped in a single pass.
const leadingConnectives = "连那这把对向跟让与和"
const trailingVerbs = "喊问说看听追知苦笑道叫答想盯望"

// Runes that invalidate a name when they appear in the given position.
// 板 is here so commercial titles like 赵老板 never pass as names.
const trailingInvalid = "没不了着过都也正谁啥么板"
const internalInvalid = "者说没"

// Honorific suffixes that allow a short surname stem (1-2 runes).
var titleSuffixes = []string{"教授", "医生", "队长", "先生", "小姐", "同学"}

// The hundred family surnames; a non-placeholder name must start with one.
const commonSurnames = "赵钱孙李周吴郑王冯陈褚卫蒋沈韩杨朱秦许何吕施张孔曹严华金魏陶姜戚谢邹柏窦章云苏潘葛范彭鲁韦马苗凤方俞任袁柳鲍史唐费廉岑薛雷贺倪汤殷罗毕郝邬安常乐于傅皮卞齐康伍余元卜顾孟平黄和穆萧尹姚邵湛汪祁毛禹狄米贝明臧计伏成戴谈宋茅庞熊纪舒屈项祝董梁杜阮蓝闵席季麻强贾路江童颜郭梅盛林钟徐邱骆高夏蔡田樊胡霍虞万支柯管卢莫房缪丁宣邓单杭洪包左石崔吉龚程邢裴陆荣翁荀惠甄曲封芮靳汲段富巫乌焦巴弓车侯班仰仲伊宫宁仇栾甘厉戎祖武符刘景詹龙叶司黎薄印白蒲从鄂索赖卓蔺屠蒙池乔阴胥闻党翟谭贡姬申扶堵冉宰郦桑桂濮牛寿通边扈燕冀郏浦尚农温别庄晏柴瞿阎连茹习艾鱼容向古易慎戈廖衡步都耿满弘匡文寇广禄阙欧殳沃利蔚越隆师巩聂晁勾敖融冷辛阚那简饶曾关蒯相查后荆红游竺权逯盖益桓公"
