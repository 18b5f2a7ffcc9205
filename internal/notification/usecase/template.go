package usecase

// Email bodies are kept in-code rather than in a template table; the module
// sends exactly two kinds of email and both ship with the binary.

const verificationCodeSubject = "Your verification code"

const verificationCodeTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333333; margin: 0; padding: 24px;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
    <tr>
      <td align="center">
        <table role="presentation" width="480" cellpadding="0" cellspacing="0" style="background: #ffffff; border: 1px solid #e5e5e5; border-radius: 8px; padding: 32px;">
          <tr>
            <td>
              <p>Hi {{.full_name}},</p>
              <p>Use this code to verify your email address:</p>
              <p style="font-size: 32px; font-weight: bold; letter-spacing: 8px; text-align: center; margin: 24px 0;">{{.code}}</p>
              <p>The code expires in {{.expires_in_minutes}} minutes. If you did not request it, you can ignore this email.</p>
              <p style="color: #888888; font-size: 12px; margin-top: 32px;">
                {{.company_name}} &middot; {{.year}} &middot; <a href="mailto:{{.support_email}}">{{.support_email}}</a>
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

const welcomeSubject = "Welcome aboard"

const welcomeTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333333; margin: 0; padding: 24px;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
    <tr>
      <td align="center">
        <table role="presentation" width="480" cellpadding="0" cellspacing="0" style="background: #ffffff; border: 1px solid #e5e5e5; border-radius: 8px; padding: 32px;">
          <tr>
            <td>
              <p>Hi {{.full_name}},</p>
              <p>Your email address is verified and your account is ready to use.</p>
              <p style="color: #888888; font-size: 12px; margin-top: 32px;">
                {{.company_name}} &middot; {{.year}} &middot; <a href="mailto:{{.support_email}}">{{.support_email}}</a>
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
