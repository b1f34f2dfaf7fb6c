package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/KingcleverFcl/wna-syte/internal/codegen"
	"github.com/KingcleverFcl/wna-syte/internal/dto"
	pkgerrors "github.com/KingcleverFcl/wna-syte/pkg/errors"
)

var (
	codeA = strings.Repeat("A", CodeLength)
	codeB = strings.Repeat("B", CodeLength)
)

func newTestCodeService(repo *mockCodeRepo, gen codegen.Generator, selfHeal bool) CodeService {
	return NewCodeService(repo, gen, selfHeal, zap.NewNop())
}

// ═══════════════════════════════════════════════════════════
// Issue
// ═══════════════════════════════════════════════════════════

func TestCodeService_Issue_Success(t *testing.T) {
	repo := newMockCodeRepo()
	svc := newTestCodeService(repo, &fixedGenerator{codes: []string{codeA}}, true)

	result, err := svc.Issue(context.Background())
	if err != nil {
		t.Fatalf("Issue 失败: %v", err)
	}
	if result.Kind != dto.IssueKindIssued {
		t.Errorf("期望 issued，实际 %s", result.Kind)
	}
	if result.Code != codeA {
		t.Errorf("期望返回生成的码，实际 %q", result.Code)
	}
	if len(repo.codes) != 1 {
		t.Errorf("期望写入 1 行，实际 %d", len(repo.codes))
	}
}

func TestCodeService_Issue_RealGenerator(t *testing.T) {
	repo := newMockCodeRepo()
	svc := newTestCodeService(repo, codegen.Default{}, true)

	first, err := svc.Issue(context.Background())
	if err != nil {
		t.Fatalf("Issue 失败: %v", err)
	}
	second, err := svc.Issue(context.Background())
	if err != nil {
		t.Fatalf("Issue 失败: %v", err)
	}
	if !codegen.Valid(first.Code) || !codegen.Valid(second.Code) {
		t.Errorf("生成的码格式不正确: %q %q", first.Code, second.Code)
	}
	if first.Code == second.Code {
		t.Error("两次签发的码不应相同")
	}
}

func TestCodeService_Issue_Duplicate(t *testing.T) {
	repo := newMockCodeRepo()
	svc := newTestCodeService(repo, &fixedGenerator{codes: []string{codeA}}, true)

	if _, err := svc.Issue(context.Background()); err != nil {
		t.Fatalf("首次 Issue 失败: %v", err)
	}
	before := len(repo.codes)

	result, err := svc.Issue(context.Background())
	if err != nil {
		t.Fatalf("重复码不应返回错误: %v", err)
	}
	if result.Kind != dto.IssueKindDuplicate {
		t.Errorf("期望 duplicate，实际 %s", result.Kind)
	}
	if result.Code != "" {
		t.Error("duplicate 结果不应携带码")
	}
	if len(repo.codes) != before {
		t.Errorf("重复签发后行数应不变: %d → %d", before, len(repo.codes))
	}
}

func TestCodeService_Issue_GeneratorError(t *testing.T) {
	repo := newMockCodeRepo()
	svc := newTestCodeService(repo, &fixedGenerator{err: errors.New("entropy exhausted")}, true)

	if _, err := svc.Issue(context.Background()); err == nil {
		t.Fatal("生成失败应返回错误")
	}
	if repo.issueCalls != 0 {
		t.Error("生成失败时不应访问存储")
	}
}

func TestCodeService_Issue_StorageError(t *testing.T) {
	repo := newMockCodeRepo()
	boom := errors.New("dial tcp: connection refused")
	repo.issueErr = boom
	svc := newTestCodeService(repo, &fixedGenerator{codes: []string{codeA}}, true)

	_, err := svc.Issue(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("期望透传存储错误，实际 %v", err)
	}
	if repo.schemaCalls != 0 {
		t.Error("普通存储错误不应触发重建表")
	}
}

func TestCodeService_Issue_SelfHeal(t *testing.T) {
	repo := newMockCodeRepo()
	repo.issueErr = pkgerrors.ErrSchemaMissing
	svc := newTestCodeService(repo, &fixedGenerator{codes: []string{codeA}}, true)

	result, err := svc.Issue(context.Background())
	if err != nil {
		t.Fatalf("自愈成功不应返回错误: %v", err)
	}
	if result.Kind != dto.IssueKindReinitialized {
		t.Errorf("期望 reinitialized，实际 %s", result.Kind)
	}
	if repo.schemaCalls != 1 {
		t.Errorf("期望重建表 1 次，实际 %d", repo.schemaCalls)
	}
}

func TestCodeService_Issue_SelfHealDisabled(t *testing.T) {
	repo := newMockCodeRepo()
	repo.issueErr = pkgerrors.ErrSchemaMissing
	svc := newTestCodeService(repo, &fixedGenerator{codes: []string{codeA}}, false)

	_, err := svc.Issue(context.Background())
	if !errors.Is(err, pkgerrors.ErrSchemaMissing) {
		t.Errorf("期望 ErrSchemaMissing，实际 %v", err)
	}
	if repo.schemaCalls != 0 {
		t.Error("关闭自愈时不应重建表")
	}
}

func TestCodeService_Issue_SelfHealFails(t *testing.T) {
	repo := newMockCodeRepo()
	repo.issueErr = pkgerrors.ErrSchemaMissing
	repo.schemaErr = errors.New("permission denied for schema public")
	svc := newTestCodeService(repo, &fixedGenerator{codes: []string{codeA}}, true)

	_, err := svc.Issue(context.Background())
	if !errors.Is(err, pkgerrors.ErrSchemaMissing) {
		t.Errorf("重建失败应返回 ErrSchemaMissing，实际 %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Redeem
// ═══════════════════════════════════════════════════════════

func TestCodeService_Redeem_Found(t *testing.T) {
	repo := newMockCodeRepo()
	svc := newTestCodeService(repo, &fixedGenerator{codes: []string{codeA}}, true)

	issued, err := svc.Issue(context.Background())
	if err != nil {
		t.Fatalf("Issue 失败: %v", err)
	}

	result, err := svc.Redeem(context.Background(), issued.Code)
	if err != nil {
		t.Fatalf("Redeem 失败: %v", err)
	}
	if result.Kind != dto.RedeemKindFound || !result.Valid() {
		t.Errorf("期望 found，实际 %s", result.Kind)
	}
	if result.Code != codeA {
		t.Errorf("期望返回提交的码，实际 %q", result.Code)
	}
}

func TestCodeService_Redeem_NotFound(t *testing.T) {
	repo := newMockCodeRepo()
	svc := newTestCodeService(repo, &fixedGenerator{codes: []string{codeA}}, true)
	if _, err := svc.Issue(context.Background()); err != nil {
		t.Fatalf("Issue 失败: %v", err)
	}

	result, err := svc.Redeem(context.Background(), codeB)
	if err != nil {
		t.Fatalf("Redeem 失败: %v", err)
	}
	if result.Kind != dto.RedeemKindNotFound || result.Valid() {
		t.Errorf("期望 not_found，实际 %s", result.Kind)
	}
	if result.Code != "" {
		t.Error("not_found 结果不应携带码")
	}
}

func TestCodeService_Redeem_WrongLength(t *testing.T) {
	for _, candidate := range []string{
		"",
		codeA[:CodeLength-1],
		codeA + "A",
		strings.Repeat("Я", CodeLength-1),
	} {
		repo := newMockCodeRepo()
		svc := newTestCodeService(repo, codegen.Default{}, true)

		result, err := svc.Redeem(context.Background(), candidate)
		if err != nil {
			t.Fatalf("Redeem(%q) 失败: %v", candidate, err)
		}
		if result.Kind != dto.RedeemKindRejected {
			t.Errorf("Redeem(len=%d) 期望 rejected，实际 %s", len(candidate), result.Kind)
		}
		if repo.existsCalls != 0 {
			t.Errorf("长度不符时不应查询存储 (len=%d)", len(candidate))
		}
	}
}

// 长度为 64 但含 Alphabet 之外字符的输入同样被拒绝，不查询存储
func TestCodeService_Redeem_OutsideAlphabet(t *testing.T) {
	for _, tc := range []struct {
		name      string
		candidate string
	}{
		{"NUL", strings.Repeat("\x00", CodeLength)},
		{"非法UTF8", strings.Repeat("\xff", CodeLength)},
		{"末位NUL", codeA[:CodeLength-1] + "\x00"},
		{"非ASCII", strings.Repeat("Я", CodeLength)},
		{"小写", strings.ToLower(codeA)},
		{"空格", codeA[:CodeLength-1] + " "},
	} {
		t.Run(tc.name, func(t *testing.T) {
			repo := newMockCodeRepo()
			svc := newTestCodeService(repo, codegen.Default{}, true)

			result, err := svc.Redeem(context.Background(), tc.candidate)
			if err != nil {
				t.Fatalf("Redeem 不应返回错误: %v", err)
			}
			if result.Kind != dto.RedeemKindRejected {
				t.Errorf("期望 rejected，实际 %s", result.Kind)
			}
			if repo.existsCalls != 0 {
				t.Errorf("非法字符不应查询存储，实际查询 %d 次", repo.existsCalls)
			}
		})
	}
}

func TestCodeService_Redeem_StorageError(t *testing.T) {
	repo := newMockCodeRepo()
	boom := errors.New("i/o timeout")
	repo.existsErr = boom
	svc := newTestCodeService(repo, codegen.Default{}, true)

	_, err := svc.Redeem(context.Background(), codeA)
	if !errors.Is(err, boom) {
		t.Errorf("期望透传存储错误，实际 %v", err)
	}
}

func TestCodeService_Redeem_SelfHeal(t *testing.T) {
	repo := newMockCodeRepo()
	repo.existsErr = pkgerrors.ErrSchemaMissing
	svc := newTestCodeService(repo, codegen.Default{}, true)

	result, err := svc.Redeem(context.Background(), codeA)
	if err != nil {
		t.Fatalf("自愈成功不应返回错误: %v", err)
	}
	if result.Kind != dto.RedeemKindReinitialized {
		t.Errorf("期望 reinitialized，实际 %s", result.Kind)
	}
	if repo.schemaCalls != 1 {
		t.Errorf("期望重建表 1 次，实际 %d", repo.schemaCalls)
	}
}

func TestCodeService_Redeem_SelfHealDisabled(t *testing.T) {
	repo := newMockCodeRepo()
	repo.existsErr = pkgerrors.ErrSchemaMissing
	svc := newTestCodeService(repo, codegen.Default{}, false)

	if _, err := svc.Redeem(context.Background(), codeA); !errors.Is(err, pkgerrors.ErrSchemaMissing) {
		t.Errorf("期望 ErrSchemaMissing，实际 %v", err)
	}
}
