/*
 * @module service/meta/columns
 * @description 学校资料表的列名常量，与教育局学校概览数据表头保持一致
 * @architecture 元数据层 - 只包含常量定义
 * @documentReference DESIGN.md
 * @stateFlow 无状态
 * @rules 列名以上传文件表头（NFKC规范化后）为准，修改需同步规范化器和筛选器
 * @dependencies 无
 * @refs service/normalizer, service/facet, service/card
 */

package meta

// 必需列
const (
	ColSchoolName = "學校名稱"
)

// 地区、校网、类别
const (
	ColDistrict = "地區"
	ColNetwork  = "校網"
	ColCategory = "學校類別"

	// ColFinanceType 部分年份资料以"資助類型"记录学校类别
	ColFinanceType = "資助類型"
)

// 师资百分比列
const (
	ColTeacherTrainingPct  = "已接受師資培訓(佔全校教師人數%)"
	ColBachelorPct         = "學士(佔全校教師人數%)"
	ColPostgraduatePct     = "碩士、博士或以上 (佔全校教師人數%)"
	ColSpecialEducationPct = "特殊教育培訓 (佔全校教師人數%)"
	ColExperience0To4Pct   = "0-4年資 (佔全校教師人數%)"
	ColExperience5To9Pct   = "5-9年資(佔全校教師人數%)"
	ColExperience10PlusPct = "10年或以上年資 (佔全校教師人數%)"
)

// 教师人数列（缺失保留为未知）
const (
	ColApprovedTeachers = "核准編制教師職位數目"
	ColTotalTeachers    = "全校教師總人數"
)

// 测验考试次数列（缺失视为0）
const (
	ColP1Tests    = "一年級全年全科測驗次數"
	ColP1Exams    = "一年級全年全科考試次數"
	ColP2To6Tests = "二至六年級全年全科測驗次數"
	ColP2To6Exams = "二至六年級全年全科考試次數"
)

// 是/否来源列
const (
	ColP1AlternativeAssessment = "小一上學期以多元化的進展性評估代替測驗及考試"
	ColAvoidHolidayExams       = "避免緊接在長假期後安排測考，讓學生在假期有充分的休息"
	ColAfternoonTutorial       = "按校情靈活編排時間表，盡量在下午安排導修時段，讓學生能在教師指導下完成部分家課"
	ColPTA                     = "家長教師會"
	ColSchoolBus               = "校車"
	ColNannyBus                = "保姆車"

	// 旧版资料没有独立是/否列，只有政策描述
	ColHomeworkPolicy    = "家課政策"
	ColAssessmentPolicy  = "測考政策"
	ColDiverseAssessment = "多元學習評估"
)

// 一条龙/直属/联系中学
const (
	ColThroughTrainSchool = "一條龍中學"
	ColFeederSchool       = "直屬中學"
	ColLinkedSchool       = "聯繫中學"
)

// 设施
const (
	ColClassrooms      = "課室數目"
	ColHalls           = "禮堂數目"
	ColPlaygrounds     = "操場數目"
	ColLibraries       = "圖書館數目"
	ColSpecialRooms    = "特別室"
	ColSENFacilities   = "支援有特殊教育需要學生的設施"
	ColOtherFacilities = "其他學校設施"
)

// 办学特色文本列
const (
	ColSchoolFocus           = "學校關注事項"
	ColLearningStrategies    = "學習和教學策略"
	ColCurriculumRenewal     = "小學教育課程更新重點的發展"
	ColGenericSkills         = "共通能力的培養"
	ColValuesCultivation     = "正確價值觀、態度和行為的培養"
	ColLearnerDiversity      = "全校參與照顧學生的多樣性"
	ColIntegratedEducation   = "全校參與模式融合教育"
	ColNonChineseSupport     = "非華語學生的教育支援"
	ColCurriculumTailoring   = "課程剪裁及調適措施"
	ColHomeSchoolCooperation = "家校合作"
	ColSchoolEthos           = "校風"
	ColDevelopmentPlan       = "學校發展計劃"
	ColTeacherDevelopment    = "教師專業培訓及發展"
	ColOtherDevelopment      = "其他未來發展"
	ColMission               = "辦學宗旨"
	ColLifeWideLearning      = "全方位學習"
)

// 文章表列
const (
	ColArticleTitle = "文章標題"
	ColArticleURL   = "文章連結"
)

// ArticleTitleAliases 文章标题列的可接受表头
var ArticleTitleAliases = []string{ColArticleTitle, "標題", "title"}

// ArticleURLAliases 文章链接列的可接受表头
var ArticleURLAliases = []string{ColArticleURL, "連結", "網址", "url"}

// FeatureTextColumns 拼接为 features_text 的办学特色列（顺序即拼接顺序）
var FeatureTextColumns = []string{
	ColSchoolFocus, ColLearningStrategies, ColCurriculumRenewal, ColGenericSkills, ColValuesCultivation,
	ColLearnerDiversity, ColIntegratedEducation, ColNonChineseSupport, ColCurriculumTailoring,
	ColHomeSchoolCooperation, ColSchoolEthos, ColDevelopmentPlan, ColTeacherDevelopment, ColOtherDevelopment,
	ColMission, ColLifeWideLearning, ColSpecialRooms, ColOtherFacilities,
}

// FeederColumns 判断是否有一条龙/直属/联系中学的三列
var FeederColumns = []string{ColThroughTrainSchool, ColFeederSchool, ColLinkedSchool}
